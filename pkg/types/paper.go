// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// LinkSentinel marks a record whose index entry carried no external link.
// Sentinel links are never fetched.
const LinkSentinel = "N/A"

// Paper holds one proceedings entry scraped from the bibliographic index.
// Link doubles as the identity key when merging a prior checkpoint into a
// freshly loaded corpus; uniqueness is assumed, not enforced.
type Paper struct {
	// Year is the conference year the entry belongs to.
	Year int `json:"year" yaml:"year"`

	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Authors is the comma-joined author list in source order.
	Authors string `json:"authors" yaml:"authors"`

	// Link is the external landing-page URL, or LinkSentinel when the
	// entry had none.
	Link string `json:"link" yaml:"link"`

	// Abstract is the resolved abstract text. Empty means unresolved;
	// "attempted and not found" is deliberately indistinguishable from
	// "never attempted", so failed links are re-attempted on the next run.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`
}

// HasAbstract reports whether the record already carries abstract text.
func (p Paper) HasAbstract() bool {
	return p.Abstract != ""
}

// HasLink reports whether the record carries a fetchable link.
func (p Paper) HasLink() bool {
	return p.Link != "" && p.Link != LinkSentinel
}
