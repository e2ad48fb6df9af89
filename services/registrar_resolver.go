package services

import (
	"net/url"
	"strings"

	"github.com/fenilmodi00/ipo-allotment-tracker/models"
)

// Registrar portal URLs for the registrars we can route to directly
const (
	LinkIntimePortalURL = "https://linkintime.co.in/initial_offer/public-issues.html"
	KFintechPortalURL   = "https://ris.kfintech.com/ipostatus/"
	BigsharePortalURL   = "https://www.bigshareonline.com/ipo_Allotment.html"
	BSEPortalURL        = "https://www.bseindia.com/investors/appli_check.aspx"
)

const searchFallbackBaseURL = "https://www.google.com/search"

// RegistrarPortal maps a lowercase registrar-name fragment to its allotment portal.
type RegistrarPortal struct {
	Fragment  string `json:"fragment"`
	Registrar string `json:"registrar"`
	PortalURL string `json:"portal_url"`
}

var knownRegistrarPortals = []RegistrarPortal{
	{Fragment: "link", Registrar: "Link Intime", PortalURL: LinkIntimePortalURL},
	{Fragment: "kfin", Registrar: "KFintech", PortalURL: KFintechPortalURL},
	{Fragment: "big", Registrar: "Bigshare", PortalURL: BigsharePortalURL},
	{Fragment: "bse", Registrar: "BSE", PortalURL: BSEPortalURL},
}

// ResolveAllotmentURL returns where to send a user to check allotment for the record.
// A feed-supplied http(s) URL wins, then a known registrar portal, then a web search.
// The result is never empty.
func ResolveAllotmentURL(record *models.IPORecord) string {
	if hasHTTPScheme(record.RegistrarURL) {
		return record.RegistrarURL
	}

	if portalURL, ok := lookupRegistrarPortal(record.Registrar); ok {
		return portalURL
	}

	return allotmentSearchURL(record.Name, record.Registrar)
}

// KnownRegistrarPortals lists the registrars routed directly to their portal
func KnownRegistrarPortals() []RegistrarPortal {
	portals := make([]RegistrarPortal, len(knownRegistrarPortals))
	copy(portals, knownRegistrarPortals)
	return portals
}

func hasHTTPScheme(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// lookupRegistrarPortal uses substring containment so names like "Link Intime India Pvt Ltd" still match.
func lookupRegistrarPortal(registrar string) (string, bool) {
	lower := strings.ToLower(registrar)
	for _, portal := range knownRegistrarPortals {
		if strings.Contains(lower, portal.Fragment) {
			return portal.PortalURL, true
		}
	}
	return "", false
}

func allotmentSearchURL(name, registrar string) string {
	query := url.Values{}
	query.Set("q", name+" IPO allotment status "+registrar)
	return searchFallbackBaseURL + "?" + query.Encode()
}
