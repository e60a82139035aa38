package imagetest

import "fmt"

const (
	// ResourceProvider is the ARM resource provider namespace that owns
	// jobTemplates and jobs.
	ResourceProvider = "Microsoft.AzureImageTestingForLinux"

	// APIVersion is the resource provider API version sent on every request.
	APIVersion = "2023-08-01-preview"

	// DefaultEndpoint is the ARM endpoint the provider is currently served
	// from (canary region).
	DefaultEndpoint = "https://eastus2euap.management.azure.com"
)

// Endpoint builds the fully-qualified URL for a provider segment such as
// "jobTemplates", "jobTemplates/{name}", "jobs" or "jobs/{name}".
func Endpoint(base, subscriptionID, resourceGroup, segment string) string {
	return fmt.Sprintf("%s/subscriptions/%s/resourceGroups/%s/providers/%s/%s?api-version=%s",
		base, subscriptionID, resourceGroup, ResourceProvider, segment, APIVersion)
}
