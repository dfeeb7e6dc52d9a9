// Package source deep-links review rows into the embedded document viewer.
package source

import (
	"strconv"
	"strings"
)

// LinkToPage returns documentURL with its fragment replaced by "#page=N". ok is
// false when page < 1, meaning the question carries no page reference.
func LinkToPage(documentURL string, page int) (link string, ok bool) {
	if page < 1 {
		return "", false
	}
	base, _, _ := strings.Cut(documentURL, "#")
	return base + "#page=" + strconv.Itoa(page), true
}

// Viewer is an embedded document viewer. Navigate may be a no-op when url equals
// the current source; ForceNavigate always reloads.
type Viewer interface {
	Source() string
	Navigate(url string)
	ForceNavigate(url string)
}

// Jump points viewer at the given page of documentURL. Re-targeting the URL the
// viewer already shows forces a reload so the viewer scrolls again. It reports
// false and leaves the viewer untouched when there is no page reference.
func Jump(viewer Viewer, documentURL string, page int) bool {
	link, ok := LinkToPage(documentURL, page)
	if !ok {
		return false
	}
	if viewer.Source() == link {
		viewer.ForceNavigate(link)
	} else {
		viewer.Navigate(link)
	}
	return true
}

// ViewerState is the server-held state of one review view's viewer. Reload is
// bumped on every forced navigation; the page appends it to the iframe key so the
// browser refreshes the frame even though the src string is unchanged.
type ViewerState struct {
	Src    string `json:"src"`
	Reload int    `json:"reload"`
}

func (v *ViewerState) Source() string {
	return v.Src
}

func (v *ViewerState) Navigate(url string) {
	v.Src = url
}

func (v *ViewerState) ForceNavigate(url string) {
	v.Src = url
	v.Reload++
}
