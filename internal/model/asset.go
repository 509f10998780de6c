package model

// AssetState is the reconciliation state of a painting's image asset.
type AssetState int

const (
	// StateUnresolved means no source has been confirmed yet ("not yet tried").
	StateUnresolved AssetState = iota

	// StateURLFound means a remote page or image URL is known to exist.
	StateURLFound

	// StateAssetCached means the image is stored under the record's ImageName.
	StateAssetCached

	// StateConfirmedAbsent means an operator determined no correct image is
	// available. It is terminal and only set by hand.
	StateConfirmedAbsent
)

// String returns the state name used in logs and the workspace.
func (s AssetState) String() string {
	switch s {
	case StateUnresolved:
		return "unresolved"
	case StateURLFound:
		return "url-found"
	case StateAssetCached:
		return "asset-cached"
	case StateConfirmedAbsent:
		return "confirmed-absent"
	default:
		return "unknown"
	}
}

// Provider identifies where a source URL came from.
type Provider string

const (
	// ProviderNone marks a row without any source URL.
	ProviderNone Provider = ""

	// ProviderWikiArt URLs point at a WikiArt painting page that must be scraped.
	ProviderWikiArt Provider = "wikiart"

	// ProviderWikimedia URLs point directly at an image file found through
	// Wikidata or Wikipedia.
	ProviderWikimedia Provider = "wikimedia"
)

// IsPage reports whether URLs from the provider are HTML pages rather than images.
func (p Provider) IsPage() bool {
	return p == ProviderWikiArt
}

// AssetReference ties a painting to its cached image file.
type AssetReference struct {
	// PaintingID is the owning record.
	PaintingID string

	// Filename is the derived asset filename, e.g. "paul-cezanne-the-bathers.jpg".
	Filename string

	// Exists reports whether the file is present in the asset directory.
	Exists bool

	// SourceURL is the remote origin used to retrieve the asset.
	SourceURL string

	// Provider is the origin of SourceURL.
	Provider Provider
}

// CandidateURL is a provisional remote location generated by pattern
// substitution. It is not guaranteed to exist.
type CandidateURL struct {
	// URL is the generated location.
	URL string

	// Pattern names the substitution that produced URL, e.g. "title-year".
	Pattern string
}
