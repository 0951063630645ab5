// Package devices enumerates whole disks for completion by querying diskutil
// and optionally caching its property-list output between invocations.
package devices

import (
	"context"
	"fmt"
	"strings"

	"howett.net/plist"
)

const (
	// DevicePrefix starts every device identifier offered as a completion.
	DevicePrefix = "/dev/"

	// DeviceMarker is how a word on the command line is recognized as a device.
	DeviceMarker = "/dev"
)

// Listing is the subset of `diskutil list -plist` the completer reads.
// VolumesFromDisks names the leading WholeDisks that have a volume name.
type Listing struct {
	WholeDisks       []string `plist:"WholeDisks"`
	VolumesFromDisks []string `plist:"VolumesFromDisks"`
}

// DeviceLister lists the whole disks currently attached.
type DeviceLister interface {
	ListDevices(ctx context.Context) (Listing, error)
}

// ParseListing decodes a property list, ignoring keys it does not know.
func ParseListing(data []byte) (Listing, error) {
	var listing Listing
	if _, err := plist.Unmarshal(data, &listing); err != nil {
		return Listing{}, fmt.Errorf("failed to parse disk listing: %w", err)
	}
	return listing, nil
}

// Encode renders the listing as an XML property list.
func (l Listing) Encode() ([]byte, error) {
	data, err := plist.MarshalIndent(l, plist.XMLFormat, "\t")
	if err != nil {
		return nil, fmt.Errorf("failed to encode disk listing: %w", err)
	}
	return data, nil
}

// FormatDevices turns a listing into completion candidates starting with
// current. Disks with a volume name are annotated as /dev/disk0(Macintosh_HD).
// A lone remaining candidate loses its annotation since there is nothing to
// disambiguate.
func FormatDevices(listing Listing, current string) []string {
	devices := make([]string, 0, len(listing.WholeDisks))

	for i, disk := range listing.WholeDisks {
		device := DevicePrefix + disk
		if i < len(listing.VolumesFromDisks) {
			device += "(" + strings.ReplaceAll(listing.VolumesFromDisks[i], " ", "_") + ")"
		}
		if current != "" && !strings.HasPrefix(device, current) {
			continue
		}
		devices = append(devices, device)
	}

	if len(devices) == 1 {
		if idx := strings.Index(devices[0], "("); idx >= 0 {
			devices[0] = devices[0][:idx]
		}
	}

	return devices
}
