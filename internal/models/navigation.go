package models

// Route is a page of the site.
type Route struct {
	Path  string `json:"path"`
	Title string `json:"title"`
}

// NavLink is a labelled link rendered in the header or footer.
type NavLink struct {
	Name string `json:"name"`
	Href string `json:"href"`
}

// ContactInfo is the institute's contact block.
type ContactInfo struct {
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// Navigation is the shell shared by every page.
type Navigation struct {
	SiteName  string      `json:"site_name"`
	Routes    []Route     `json:"routes"`
	Header    []NavLink   `json:"header"`
	Footer    []NavLink   `json:"footer"`
	Contact   ContactInfo `json:"contact"`
	Copyright string      `json:"copyright"`
}
