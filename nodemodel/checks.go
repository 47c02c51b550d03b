package nodemodel

var (
	_ Updatable = (*SeriesNode)(nil)
	_ Updatable = (*DivergeNode)(nil)
	_ Updatable = (*MergeNode)(nil)
	_ Updatable = (*RampMeterNode)(nil)
	_ Updatable = (*FullyProtectedIntersectionNode)(nil)

	_ NodeInfo = (*OriginNode)(nil)
	_ NodeInfo = (*DestinationNode)(nil)
)
