package config

const (
	// MaxDocumentNameLength is the maximum length for document names,
	// extension included.
	MaxDocumentNameLength = 255

	// MaxFolderNameLength is the maximum length for folder names.
	// Same as document names for consistency.
	MaxFolderNameLength = 255

	// MaxDocumentPathLength is the maximum length for a storage path.
	MaxDocumentPathLength = 500

	// MaxRequestBodyBytes caps JSON bodies accepted by the reference server.
	MaxRequestBodyBytes = 10 << 20
)
