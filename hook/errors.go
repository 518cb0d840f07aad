package hook

import "errors"

// Error classes. Every failure returned by this package wraps exactly one of
// them together with the underlying cause, so both can be tested with
// errors.Is.
var (
	// ErrConfigRead: config.xml or .lproj.yaml could not be read or parsed.
	ErrConfigRead = errors.New("config read error")
	// ErrDiscovery: the translations directory could not be scanned.
	ErrDiscovery = errors.New("discovery error")
	// ErrParse: a translation file is malformed.
	ErrParse = errors.New("translation parse error")
	// ErrIO: a locale directory or .strings file could not be written.
	ErrIO = errors.New("io error")
	// ErrDescriptorParse: project.pbxproj could not be read or parsed.
	ErrDescriptorParse = errors.New("project descriptor parse error")
	// ErrDescriptorWrite: project.pbxproj could not be written back.
	ErrDescriptorWrite = errors.New("project descriptor write error")
)
