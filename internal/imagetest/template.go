package imagetest

// Selection narrows which test cases a job template runs. Both filters may be
// set at once; empty filters are omitted from the wire format.
type Selection struct {
	CasePriority []int    `json:"casePriority,omitempty"`
	CaseName     []string `json:"caseName,omitempty"`
}

// JobTemplate describes which tests to run, at what concurrency, against
// which VM sizes and regions. Region and VMSize always serialize as arrays,
// empty when no value was given; the server treats an absent selections key
// as "run priority-0 smoke tests only".
type JobTemplate struct {
	TemplateTags []string    `json:"templateTags"`
	Selections   []Selection `json:"selections,omitempty"`
	Region       []string    `json:"region"`
	VMSize       []string    `json:"vmSize"`
	Concurrency  int         `json:"concurrency"`
}

// TemplateCreateRequest is the PUT body for creating or updating a named job
// template.
type TemplateCreateRequest struct {
	Location   string      `json:"location"`
	Name       string      `json:"name"`
	Properties JobTemplate `json:"properties"`
}

// BuildTemplate maps flat CLI inputs onto a JobTemplate. The location is
// accepted alongside the other template inputs but only the enclosing
// request uses it. Pure, no error conditions.
func BuildTemplate(vmSize string, testPriorities []int, testCases []string, location string, regions []string, concurrency int) JobTemplate {
	template := JobTemplate{
		TemplateTags: []string{},
		Region:       []string{},
		VMSize:       []string{},
		Concurrency:  concurrency,
	}

	var selection Selection
	if len(testPriorities) > 0 {
		selection.CasePriority = testPriorities
	}
	if len(testCases) > 0 {
		selection.CaseName = testCases
	}
	if selection.CasePriority != nil || selection.CaseName != nil {
		template.Selections = []Selection{selection}
	}

	if len(regions) > 0 {
		template.Region = regions
	}
	if vmSize != "" {
		template.VMSize = []string{vmSize}
	}

	return template
}
