package imagetest

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ImageSource is the image a job runs against: either a marketplace image or
// a VHD behind a SAS URL. Exactly one variant is set per job; the interface
// makes the exclusivity structural instead of relying on conditional keys.
type ImageSource interface {
	imageType() string
}

// MarketplaceImage identifies an Azure Marketplace image by its URN parts.
type MarketplaceImage struct {
	Publisher string `json:"publisher"`
	Offer     string `json:"offer"`
	SKU       string `json:"sku"`
	Version   string `json:"version"`
}

func (MarketplaceImage) imageType() string { return "marketplace" }

// VHDImage points at a VHD via a SAS URL.
type VHDImage struct {
	URL string `json:"url"`
}

func (VHDImage) imageType() string { return "vhd" }

// Image combines an image source with the VM generation and CPU architecture
// the test VMs boot with.
type Image struct {
	VHDGeneration int
	Architecture  string
	Source        ImageSource
}

// MarshalJSON flattens the source variant into the image object together
// with a type discriminator, matching the provider's wire format.
func (i Image) MarshalJSON() ([]byte, error) {
	switch src := i.Source.(type) {
	case MarketplaceImage:
		return json.Marshal(struct {
			VHDGeneration int    `json:"vhdGeneration"`
			Architecture  string `json:"architecture"`
			Type          string `json:"type"`
			MarketplaceImage
		}{i.VHDGeneration, i.Architecture, src.imageType(), src})
	case VHDImage:
		return json.Marshal(struct {
			VHDGeneration int    `json:"vhdGeneration"`
			Architecture  string `json:"architecture"`
			Type          string `json:"type"`
			VHDImage
		}{i.VHDGeneration, i.Architecture, src.imageType(), src})
	case nil:
		return nil, errors.New("image source not set")
	default:
		return nil, fmt.Errorf("unsupported image source %T", src)
	}
}

// ParseImageURN splits a marketplace image URN of the form
// "publisher:offer:sku:version" ("az vm image list" output).
func ParseImageURN(urn string) (MarketplaceImage, error) {
	parts := strings.Split(urn, ":")
	if len(parts) != 4 {
		return MarketplaceImage{}, fmt.Errorf(
			"marketplace image URN should be in the format of 'publisher:offer:sku:version', got %q", urn)
	}
	return MarketplaceImage{
		Publisher: parts[0],
		Offer:     parts[1],
		SKU:       parts[2],
		Version:   parts[3],
	}, nil
}
