package domain

// Source types recorded in a posting's ats_type field.
const (
	SourceGreenhouse      = "greenhouse"
	SourceLever           = "lever"
	SourceWorkday         = "workday"
	SourceSmartRecruiters = "smartrecruiters"
	SourceBrassRing       = "brassring"
	SourceNEOGOV          = "neogov"
	SourceBoard           = "board"
	SourceSelfTest        = "selftest"
)
