package types

// Mode selects which matcher a scan runs.
type Mode string

const (
	ModeDirs  Mode = "dirs"
	ModeFiles Mode = "files"
)

// DefaultNames is the fallback target set for directory scans and the
// fallback exclusion set for file scans.
var DefaultNames = []string{"node_modules", "Pods", ".git", "dist", "build"}

// ScanRequest describes one scan invocation. Targets is used in ModeDirs,
// Extensions and Excludes in ModeFiles. ExcludeGlobs applies to both.
type ScanRequest struct {
	Root         string   `json:"root"`
	Mode         Mode     `json:"mode"`
	Targets      []string `json:"targets,omitempty"`
	Extensions   []string `json:"extensions,omitempty"`
	Excludes     []string `json:"excludes,omitempty"`
	ExcludeGlobs []string `json:"exclude_globs,omitempty"`
}

// ScanOutput is the result handed back across the scan boundary.
type ScanOutput struct {
	Count   int      `json:"count"`
	Results []string `json:"results"`
}

// ScanStats carries walk diagnostics. Unreadable directories never fail a
// scan; they are only counted here.
type ScanStats struct {
	DirsVisited int `json:"dirs_visited"`
	Unreadable  int `json:"unreadable"`
}

// Entry is a single child of a listed directory.
type Entry struct {
	Name      string
	Path      string
	IsDir     bool
	IsRegular bool
}

// RemoteHost names the hosting provider a repository's first remote points at.
type RemoteHost string

const (
	HostNone      RemoteHost = ""
	HostGitHub    RemoteHost = "github"
	HostGitLab    RemoteHost = "gitlab"
	HostBitbucket RemoteHost = "bitbucket"
	HostAzure     RemoteHost = "azure"
	HostRemote    RemoteHost = "remote"
)

// RepoStatus is the advisory result of a repository probe.
type RepoStatus struct {
	OK         bool       `json:"ok"`
	Dirty      bool       `json:"dirty"`
	HasRemote  bool       `json:"hasRemote"`
	RemoteHost RemoteHost `json:"remoteHost"`
	Error      string     `json:"error,omitempty"`
}

// DeleteResult reports the outcome of deleting one path.
type DeleteResult struct {
	Path  string `json:"path,omitempty"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}
