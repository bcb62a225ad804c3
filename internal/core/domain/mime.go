package domain

// SupportedMIMETypes is the advisory allow-list of content types the backend
// accepts, grouped by top-level category. It is exposed for listing only;
// the backend stays authoritative on acceptance and this layer never gates
// uploads on it.
var SupportedMIMETypes = map[string][]string{
	"application": {
		"application/pdf",
		"application/json",
		"application/msword",
		"application/vnd.ms-excel",
		"application/vnd.ms-powerpoint",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"application/vnd.openxmlformats-officedocument.presentationml.presentation",
		"application/zip",
		"application/x-tar",
		"application/gzip",
		"application/xml",
		"application/rtf",
		"application/x-latex",
	},
	"text": {
		"text/plain",
		"text/markdown",
		"text/csv",
		"text/html",
		"text/xml",
		"text/yaml",
		"text/css",
		"text/javascript",
		"text/x-python",
		"text/x-java",
		"text/x-c",
		"text/x-c++",
		"text/x-go",
		"text/x-ruby",
		"text/x-php",
		"text/x-rust",
		"text/x-typescript",
		"text/x-shell",
	},
}

// mimeByExtension maps file extensions to MIME types for the cases the
// standard library's table misses or maps differently from the backend.
var mimeByExtension = map[string]string{
	".md":   "text/markdown",
	".go":   "text/x-go",
	".py":   "text/x-python",
	".java": "text/x-java",
	".c":    "text/x-c",
	".h":    "text/x-c",
	".cc":   "text/x-c++",
	".cpp":  "text/x-c++",
	".hpp":  "text/x-c++",
	".rb":   "text/x-ruby",
	".php":  "text/x-php",
	".rs":   "text/x-rust",
	".ts":   "text/x-typescript",
	".sh":   "text/x-shell",
	".yaml": "text/yaml",
	".yml":  "text/yaml",
	".txt":  "text/plain",
	".csv":  "text/csv",
	".json": "application/json",
	".pdf":  "application/pdf",
	".html": "text/html",
	".xml":  "text/xml",
	".rtf":  "application/rtf",
	".tex":  "application/x-latex",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".doc":  "application/msword",
	".xls":  "application/vnd.ms-excel",
	".ppt":  "application/vnd.ms-powerpoint",
	".zip":  "application/zip",
	".tar":  "application/x-tar",
	".gz":   "application/gzip",
}

// MIMETypeForExtension returns the backend MIME type for a file extension
// (with leading dot, lower case). Returns "" when the extension is not in
// the advisory list.
func MIMETypeForExtension(ext string) string {
	return mimeByExtension[ext]
}

// IsSupportedExtension reports whether the extension appears in the advisory
// allow-list. Used by bulk ingestion to skip content the backend is known to
// reject; single-file uploads are never gated on it.
func IsSupportedExtension(ext string) bool {
	_, ok := mimeByExtension[ext]
	return ok
}
