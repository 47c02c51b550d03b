package linkmodel

var (
	_ Model = (*PQLink)(nil)
	_ Model = (*SQLink)(nil)
	_ Model = (*CTMLink)(nil)
	_ Model = (*LTMLink)(nil)
)
