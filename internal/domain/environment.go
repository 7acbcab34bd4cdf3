package domain

// Environment is the configuration bundle consulted by the truncation and
// rendering pipeline. Sizes are bytes unless noted.
type Environment struct {
	// MaxSearchLines caps search result lines per response.
	MaxSearchLines int `yaml:"max_search_lines"`
	// MaxSearchResultBytes caps the serialized size of search results.
	MaxSearchResultBytes int `yaml:"max_search_result_bytes"`
	// FetchTruncationLimit caps the inlined portion of a fetched body.
	FetchTruncationLimit int `yaml:"fetch_truncation_limit"`
	// StdoutMaxPrefixLength is the head window of a shell stream, in lines.
	StdoutMaxPrefixLength int `yaml:"stdout_max_prefix_length"`
	// StdoutMaxSuffixLength is the tail window of a shell stream, in lines.
	StdoutMaxSuffixLength int `yaml:"stdout_max_suffix_length"`
	// StdoutMaxLineLength cuts individual displayed lines, in characters.
	StdoutMaxLineLength int `yaml:"stdout_max_line_length"`
	// MaxReadSize caps how much of a file the read tool materializes.
	MaxReadSize int `yaml:"max_read_size"`
	// MaxFileSize caps how large a file the write/patch tools accept.
	MaxFileSize int `yaml:"max_file_size"`
	// Cwd is used only for display-path relativization.
	Cwd string `yaml:"cwd"`
}

// DefaultEnvironment returns the stock tunables.
func DefaultEnvironment() Environment {
	return Environment{
		MaxSearchLines:        200,
		MaxSearchResultBytes:  250 * 1024,
		FetchTruncationLimit:  40000,
		StdoutMaxPrefixLength: 200,
		StdoutMaxSuffixLength: 200,
		StdoutMaxLineLength:   2000,
		MaxReadSize:           250 * 1024,
		MaxFileSize:           256 * 1024,
	}
}
