package corridor

import (
	"github.com/trafficlab/corridordnl/linkmodel"
	"github.com/trafficlab/corridordnl/nodemodel"
)

// linkSpec is the per-link construction record used to build every one of
// the corridor's 30 links uniformly: all are CellTransmissionModelLink,
// matching original_source/networkModel.py's buildLinks verbatim (the
// point-queue mention in spec.md §4.F's "original corridor variant" note
// refers to the earlier prototype network, not this one — see DESIGN.md).
type linkSpec struct {
	id                string
	freeFlowSpeedMph  float64
	backwardSpeedMph  float64
	lengthFeet        float64
	capacityVehPerHr  float64
	tail, head        int
}

const jamDensity = 200 // veh/mi, uniform across every link in the corridor

var linkSpecs = []linkSpec{
	{"FWY NB U", 65, 35, 1500, 3200, NFwyStart, NbDiv},
	{"FWY NB C", 65, 35, 5280, 3200, NbDiv, NbMerge},
	{"FWY NB D", 65, 35, 1500, 3200, NbMerge, NFwyEnd},
	{"FWY NB XR", 45, 30, 2640, 1600, NbDiv, Erx},
	{"FWY NB NRU", 45, 30, 1140, 1600, Erx, MeterNB},
	{"FWY NB NRD", 45, 30, 1500, 1600, MeterNB, NbMerge},

	{"FWY SB U", 65, 35, 1500, 3200, SFwyStart, SbDiv},
	{"FWY SB C", 65, 35, 5280, 3200, SbDiv, SbMerge},
	{"FWY SB D", 65, 35, 1500, 3200, SbMerge, SFwyEnd},
	{"FWY SB XR", 45, 30, 2640, 1600, SbDiv, Wrx},
	{"FWY SB NRU", 45, 30, 1140, 1600, Wrx, MeterSB},
	{"FWY SB NRD", 45, 30, 1500, 1600, MeterSB, SbMerge},

	{"XS EB I", 45, 30, 1500, 3200, XsEbStart, Wx},
	{"XS EB A", 45, 30, 2000, 3200, Wx, Wrx},
	{"XS EB C", 45, 30, 400, 3200, Wrx, Erx},
	{"XS EB D", 45, 30, 2000, 3200, Erx, Ex},
	{"XS EB O", 45, 30, 1500, 3200, Ex, XsEbEnd},

	{"XS WB I", 45, 30, 1500, 3200, XsWbStart, Ex},
	{"XS WB A", 45, 30, 2000, 3200, Ex, Erx},
	{"XS WB C", 45, 30, 400, 3200, Erx, Wrx},
	{"XS WB D", 45, 30, 2000, 3200, Wrx, Wx},
	{"XS WB O", 45, 30, 1500, 3200, Wx, XsWbEnd},

	{"WC SB I", 35, 25, 2640, 1600, WcSbStart, Wx},
	{"WC SB O", 35, 25, 2640, 1600, Wx, WcSbEnd},
	{"WC NB I", 35, 25, 2640, 1600, WcNbStart, Wx},
	{"WC NB O", 35, 25, 2640, 1600, Wx, WcNbEnd},

	{"EC SB I", 35, 25, 2640, 1600, EcSbStart, Ex},
	{"EC SB O", 35, 25, 2640, 1600, Ex, EcSbEnd},
	{"EC NB I", 35, 25, 2640, 1600, EcNbStart, Ex},
	{"EC NB O", 35, 25, 2640, 1600, Ex, EcNbEnd},
}

// Build instantiates the fixed corridor topology: every link as a
// CellTransmissionModelLink, every node wired per
// original_source/networkModel.py's attachLinks/buildNodes, and every
// intersection's phase tables and merge priorities, then applies cfg as
// the starting configuration.
func Build(timestep float64, cfg Config) (*Corridor, error) {
	c := &Corridor{
		Timestep: timestep,
		LinkByID: make(map[string]linkmodel.Model, len(linkSpecs)),
		Nodes:    make([]nodemodel.NodeInfo, NumNodes),
	}

	for _, spec := range linkSpecs {
		l := linkmodel.NewCTMLink(timestep, spec.freeFlowSpeedMph, spec.backwardSpeedMph, jamDensity, spec.lengthFeet, spec.capacityVehPerHr, spec.id)
		l.SetEndpoints(spec.tail, spec.head)
		c.Links = append(c.Links, l)
		c.LinkByID[spec.id] = l
	}

	link := func(id string) linkmodel.Model { return c.LinkByID[id] }
	links := func(ids ...string) []linkmodel.Model {
		out := make([]linkmodel.Model, len(ids))
		for i, id := range ids {
			out[i] = link(id)
		}
		return out
	}

	// Origins: nodes 0-7, one downstream link each.
	origin := func(idx int, id, downstream string) {
		c.Nodes[idx] = nodemodel.NewOriginNode(id, links(downstream))
		c.Origins = append(c.Origins, idx)
	}
	origin(NFwyStart, nodeName[NFwyStart], "FWY NB U")
	origin(SFwyStart, nodeName[SFwyStart], "FWY SB U")
	origin(XsEbStart, nodeName[XsEbStart], "XS EB I")
	origin(XsWbStart, nodeName[XsWbStart], "XS WB I")
	origin(EcNbStart, nodeName[EcNbStart], "EC NB I")
	origin(EcSbStart, nodeName[EcSbStart], "EC SB I")
	origin(WcNbStart, nodeName[WcNbStart], "WC NB I")
	origin(WcSbStart, nodeName[WcSbStart], "WC SB I")

	// Destinations: nodes 8-15, one upstream link each.
	destination := func(idx int, id, upstream string) {
		c.Nodes[idx] = nodemodel.NewDestinationNode(id, links(upstream))
		c.Destinations = append(c.Destinations, idx)
	}
	destination(NFwyEnd, nodeName[NFwyEnd], "FWY NB D")
	destination(SFwyEnd, nodeName[SFwyEnd], "FWY SB D")
	destination(XsEbEnd, nodeName[XsEbEnd], "XS EB O")
	destination(XsWbEnd, nodeName[XsWbEnd], "XS WB O")
	destination(EcNbEnd, nodeName[EcNbEnd], "EC NB O")
	destination(EcSbEnd, nodeName[EcSbEnd], "EC SB O")
	destination(WcNbEnd, nodeName[WcNbEnd], "WC NB O")
	destination(WcSbEnd, nodeName[WcSbEnd], "WC SB O")

	// Merges and diverges on the freeway.
	nbMerge := nodemodel.NewMergeNode(nodeName[NbMerge], links("FWY NB NRD", "FWY NB C"), link("FWY NB D"),
		map[string]float64{"FWY NB NRD": 1, "FWY NB C": 3})
	c.Nodes[NbMerge] = nbMerge

	sbMerge := nodemodel.NewMergeNode(nodeName[SbMerge], links("FWY SB NRD", "FWY SB C"), link("FWY SB D"),
		map[string]float64{"FWY SB NRD": 1, "FWY SB C": 3})
	c.Nodes[SbMerge] = sbMerge

	nbDiv := nodemodel.NewDivergeNode(nodeName[NbDiv], link("FWY NB U"), links("FWY NB C", "FWY NB XR"))
	c.Nodes[NbDiv] = nbDiv

	sbDiv := nodemodel.NewDivergeNode(nodeName[SbDiv], link("FWY SB U"), links("FWY SB C", "FWY SB XR"))
	c.Nodes[SbDiv] = sbDiv

	// Ramp meters.
	c.RampNB = nodemodel.NewRampMeterNode(nodeName[MeterNB], link("FWY NB NRU"), link("FWY NB NRD"))
	c.Nodes[MeterNB] = c.RampNB
	c.RampSB = nodemodel.NewRampMeterNode(nodeName[MeterSB], link("FWY SB NRU"), link("FWY SB NRD"))
	c.Nodes[MeterSB] = c.RampSB

	// Signalized intersections.
	c.Ex = nodemodel.NewFullyProtectedIntersectionNode(nodeName[Ex],
		links("XS EB D", "XS WB I", "EC NB I", "EC SB I"),
		links("XS EB O", "XS WB A", "EC NB O", "EC SB O"),
		[2]nodemodel.Barrier{
			{
				Rings: [2]nodemodel.Ring{
					{Phase0: nodemodel.Phase{In: "XS EB D", Out: "XS EB O"}, Phase1: nodemodel.Phase{In: "XS WB I", Out: "EC SB O"}},
					{Phase0: nodemodel.Phase{In: "XS EB D", Out: "EC NB O"}, Phase1: nodemodel.Phase{In: "XS WB I", Out: "XS WB A"}},
				},
			},
			{
				Rings: [2]nodemodel.Ring{
					{Phase0: nodemodel.Phase{In: "EC SB I", Out: "EC SB O"}, Phase1: nodemodel.Phase{In: "EC NB I", Out: "XS WB A"}},
					{Phase0: nodemodel.Phase{In: "EC SB I", Out: "XS EB O"}, Phase1: nodemodel.Phase{In: "EC NB I", Out: "EC NB O"}},
				},
			},
		},
		[]nodemodel.Phase{
			{In: "EC SB I", Out: "XS WB A"},
			{In: "EC NB I", Out: "XS EB O"},
			{In: "XS EB D", Out: "EC SB O"},
			{In: "XS WB I", Out: "EC NB O"},
		},
	)
	c.Nodes[Ex] = c.Ex

	c.Wx = nodemodel.NewFullyProtectedIntersectionNode(nodeName[Wx],
		links("WC SB I", "WC NB I", "XS EB I", "XS WB D"),
		links("WC SB O", "WC NB O", "XS EB A", "XS WB O"),
		[2]nodemodel.Barrier{
			{
				Rings: [2]nodemodel.Ring{
					{Phase0: nodemodel.Phase{In: "XS EB I", Out: "XS EB A"}, Phase1: nodemodel.Phase{In: "XS WB D", Out: "WC SB O"}},
					{Phase0: nodemodel.Phase{In: "XS EB I", Out: "WC NB O"}, Phase1: nodemodel.Phase{In: "XS WB D", Out: "XS WB O"}},
				},
			},
			{
				Rings: [2]nodemodel.Ring{
					{Phase0: nodemodel.Phase{In: "WC NB I", Out: "WC NB O"}, Phase1: nodemodel.Phase{In: "WC SB I", Out: "XS EB A"}},
					{Phase0: nodemodel.Phase{In: "WC NB I", Out: "XS WB O"}, Phase1: nodemodel.Phase{In: "WC SB I", Out: "WC SB O"}},
				},
			},
		},
		[]nodemodel.Phase{
			{In: "XS EB I", Out: "WC SB O"},
			{In: "XS WB D", Out: "WC NB O"},
			{In: "WC SB I", Out: "XS WB O"},
			{In: "WC NB I", Out: "XS EB A"},
		},
	)
	c.Nodes[Wx] = c.Wx

	c.Erx = nodemodel.NewFullyProtectedIntersectionNode(nodeName[Erx],
		links("XS EB C", "XS WB A", "FWY NB XR"),
		links("XS EB D", "XS WB C", "FWY NB NRU"),
		[2]nodemodel.Barrier{
			{
				Rings: [2]nodemodel.Ring{
					{Phase0: nodemodel.Phase{In: "XS EB C", Out: "XS EB D"}, Phase1: nodemodel.Phase{In: "XS EB C", Out: "XS EB D"}, Split: 1.0},
					{Phase0: nodemodel.Phase{In: "XS EB C", Out: "FWY NB NRU"}, Phase1: nodemodel.Phase{In: "XS WB A", Out: "XS WB C"}},
				},
			},
			{
				Rings: [2]nodemodel.Ring{
					{Phase0: nodemodel.Phase{In: "FWY NB XR", Out: "FWY NB NRU"}, Phase1: nodemodel.Phase{In: "FWY NB XR", Out: "FWY NB NRU"}, Split: 1.0},
					{Phase0: nodemodel.Phase{In: "FWY NB XR", Out: "XS WB C"}, Phase1: nodemodel.Phase{In: "FWY NB XR", Out: "XS WB C"}, Split: 1.0},
				},
			},
		},
		[]nodemodel.Phase{
			{In: "FWY NB XR", Out: "XS EB D"},
			{In: "XS WB A", Out: "FWY NB NRU"},
		},
	)
	c.Nodes[Erx] = c.Erx

	c.Wrx = nodemodel.NewFullyProtectedIntersectionNode(nodeName[Wrx],
		links("XS EB A", "XS WB C", "FWY SB XR"),
		links("XS EB C", "XS WB D", "FWY SB NRU"),
		[2]nodemodel.Barrier{
			{
				Rings: [2]nodemodel.Ring{
					{Phase0: nodemodel.Phase{In: "XS EB A", Out: "XS EB C"}, Phase1: nodemodel.Phase{In: "XS WB C", Out: "FWY SB NRU"}},
					{Phase0: nodemodel.Phase{In: "XS WB C", Out: "XS WB D"}, Phase1: nodemodel.Phase{In: "XS WB C", Out: "XS WB D"}, Split: 1.0},
				},
			},
			{
				Rings: [2]nodemodel.Ring{
					{Phase0: nodemodel.Phase{In: "FWY SB XR", Out: "XS EB C"}, Phase1: nodemodel.Phase{In: "FWY SB XR", Out: "XS EB C"}, Split: 1.0},
					{Phase0: nodemodel.Phase{In: "FWY SB XR", Out: "FWY SB NRU"}, Phase1: nodemodel.Phase{In: "FWY SB XR", Out: "FWY SB NRU"}, Split: 1.0},
				},
			},
		},
		[]nodemodel.Phase{
			{In: "FWY SB XR", Out: "XS WB D"},
			{In: "XS EB A", Out: "FWY SB NRU"},
		},
	)
	c.Nodes[Wrx] = c.Wrx

	// Fixed per-timestep update order: every non-centroid node, by index.
	for idx := 0; idx < NumNodes; idx++ {
		if u, ok := c.Nodes[idx].(nodemodel.Updatable); ok {
			c.UpdateOrder = append(c.UpdateOrder, u)
		}
	}

	c.ApplyConfig(cfg)

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
