package completion

// Verb is a diskutil subcommand together with the tokens that may follow it.
// Options are offered verbatim, including placeholders such as "<name>"
// which only serve as hints.
type Verb struct {
	Name        string
	Options     []string
	TakesDevice bool
}

// VerbRegistry is the closed, ordered catalog of verbs the completer knows.
type VerbRegistry struct {
	verbs []Verb
	index map[string]int
}

// NewVerbRegistry creates a registry preserving the order of verbs.
// A later duplicate name replaces the earlier definition in place.
func NewVerbRegistry(verbs ...Verb) *VerbRegistry {
	r := &VerbRegistry{
		index: make(map[string]int, len(verbs)),
	}
	for _, v := range verbs {
		if i, ok := r.index[v.Name]; ok {
			r.verbs[i] = v
			continue
		}
		r.index[v.Name] = len(r.verbs)
		r.verbs = append(r.verbs, v)
	}
	return r
}

// Lookup returns the verb named name.
func (r *VerbRegistry) Lookup(name string) (Verb, bool) {
	i, ok := r.index[name]
	if !ok {
		return Verb{}, false
	}
	return r.verbs[i], true
}

// Names returns every verb name in catalog order.
func (r *VerbRegistry) Names() []string {
	names := make([]string, len(r.verbs))
	for i, v := range r.verbs {
		names[i] = v.Name
	}
	return names
}

// Verbs returns a copy of the catalog.
func (r *VerbRegistry) Verbs() []Verb {
	return append([]Verb(nil), r.verbs...)
}

var eraseFormats = []string{
	"Journaled_HFS+",
	"HFS+",
	"Case-sensitive_HFS+",
	"Case-sensitive_Journaled_HFS+",
	"HFS",
	"MS-DOS_FAT16",
	"MS-DOS_FAT32",
	"MS-DOS_FAT12",
	"MS-DOS",
	"UDF",
	"UFS",
	"ZFS",
	"<name>",
}

// DefaultVerbs is the diskutil catalog. Every verb accepts a device argument.
func DefaultVerbs() []Verb {
	return []Verb{
		{Name: "list", Options: []string{"-plist"}, TakesDevice: true},
		{Name: "info", Options: []string{"-plist"}, TakesDevice: true},
		{Name: "unmount", Options: []string{"force"}, TakesDevice: true},
		{Name: "unmountDisk", Options: []string{"force"}, TakesDevice: true},
		{Name: "eject", TakesDevice: true},
		{Name: "mount", Options: []string{"readOnly"}, TakesDevice: true},
		{Name: "mountDisk", TakesDevice: true},
		{Name: "rename", Options: []string{"<name>"}, TakesDevice: true},
		{Name: "enableJournal", TakesDevice: true},
		{Name: "disableJournal", Options: []string{"force"}, TakesDevice: true},
		{Name: "verifyVolume", TakesDevice: true},
		{Name: "repairVolume", TakesDevice: true},
		{Name: "verifyPermissions", Options: []string{"-plist"}, TakesDevice: true},
		{Name: "repairPermissions", Options: []string{"-plist"}, TakesDevice: true},
		{Name: "eraseVolume", Options: append([]string(nil), eraseFormats...), TakesDevice: true},
		{Name: "eraseOptical", Options: []string{"quick"}, TakesDevice: true},
		{Name: "zeroDisk", TakesDevice: true},
		{Name: "randomDisk", Options: []string{"<times>"}, TakesDevice: true},
		{Name: "secureErase", TakesDevice: true},
		{Name: "partitionDisk", TakesDevice: true},
		{Name: "resizeVolume", TakesDevice: true},
		{Name: "splitPartition", TakesDevice: true},
		{Name: "mergePartition", TakesDevice: true},
	}
}
