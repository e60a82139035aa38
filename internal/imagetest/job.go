package imagetest

import "errors"

// Validation errors surfaced before any network call is made.
var (
	ErrConflictingImageSources = errors.New("only one of --vhd-sas-url or --marketplace-image-urn can be used for a given test job")
	ErrMissingImageSource      = errors.New("one of --vhd-sas-url or --marketplace-image-urn should be passed")
)

// JobProperties is the properties envelope of a job creation request.
type JobProperties struct {
	JobTemplateName     string      `json:"jobTemplateName"`
	JobTemplateInstance JobTemplate `json:"jobTemplateInstance"`
	Image               Image       `json:"image"`
}

// JobCreateRequest is the PUT body for creating a test job.
type JobCreateRequest struct {
	Location   string        `json:"location"`
	Properties JobProperties `json:"properties"`
}

// JobParams collects every input of a job creation request. Exactly one of
// MarketplaceImageURN and VHDSASURL must be set. An empty Endpoint falls
// back to DefaultEndpoint.
type JobParams struct {
	MarketplaceImageURN string
	VHDSASURL           string
	JobName             string
	TemplateName        string
	ResourceGroup       string
	SubscriptionID      string
	VMSize              string
	TestPriorities      []int
	TestCases           []string
	Location            string
	Regions             []string
	Concurrency         int
	VMGeneration        int
	Architecture        string
	Endpoint            string
}

// BuildJobCreateRequest assembles the job creation payload and the endpoint
// URL it should be PUT to. Pure data assembly; the caller performs the HTTP
// request.
func BuildJobCreateRequest(p JobParams) (JobCreateRequest, string, error) {
	base := p.Endpoint
	if base == "" {
		base = DefaultEndpoint
	}
	endpoint := Endpoint(base, p.SubscriptionID, p.ResourceGroup, "jobs/"+p.JobName)

	image := Image{
		VHDGeneration: p.VMGeneration,
		Architecture:  p.Architecture,
	}
	switch {
	case p.MarketplaceImageURN != "" && p.VHDSASURL != "":
		return JobCreateRequest{}, "", ErrConflictingImageSources
	case p.MarketplaceImageURN != "":
		source, err := ParseImageURN(p.MarketplaceImageURN)
		if err != nil {
			return JobCreateRequest{}, "", err
		}
		image.Source = source
	case p.VHDSASURL != "":
		image.Source = VHDImage{URL: p.VHDSASURL}
	default:
		return JobCreateRequest{}, "", ErrMissingImageSource
	}

	template := BuildTemplate(p.VMSize, p.TestPriorities, p.TestCases, p.Location, p.Regions, p.Concurrency)

	request := JobCreateRequest{
		Location: p.Location,
		Properties: JobProperties{
			JobTemplateName:     p.TemplateName,
			JobTemplateInstance: template,
			Image:               image,
		},
	}

	return request, endpoint, nil
}
