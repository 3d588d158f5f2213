package models

// Stat is a headline number shown on a page.
type Stat struct {
	Number string `json:"number"`
	Label  string `json:"label"`
}

// Highlight is a titled blurb such as a service or value.
type Highlight struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// FeaturedCourse is a catalog course promoted on the home page with its two entry points.
type FeaturedCourse struct {
	CourseOffering
	ApplyPath   string `json:"apply_path"`
	PaymentPath string `json:"payment_path"`
}

// HomePage is the landing page copy.
type HomePage struct {
	Headline string           `json:"headline"`
	Tagline  string           `json:"tagline"`
	Intro    string           `json:"intro"`
	Stats    []Stat           `json:"stats"`
	Services []Highlight      `json:"services"`
	Courses  []FeaturedCourse `json:"courses"`
}

// TeamMember is a faculty profile.
type TeamMember struct {
	Name          string `json:"name"`
	Position      string `json:"position"`
	Experience    string `json:"experience"`
	Qualification string `json:"qualification"`
	ImageURL      string `json:"image_url,omitempty"`
}

// AboutPage is the institute profile.
type AboutPage struct {
	Intro        string       `json:"intro"`
	Mission      Highlight    `json:"mission"`
	Vision       Highlight    `json:"vision"`
	Team         []TeamMember `json:"team"`
	Achievements []Stat       `json:"achievements"`
	Values       []Highlight  `json:"values"`
}

// CertificationBody is an awarding organisation and the courses it certifies.
type CertificationBody struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	FullName    string   `json:"full_name"`
	Description string   `json:"description"`
	Courses     []string `json:"courses"`
	Validity    string   `json:"validity"`
	Recognition string   `json:"recognition"`
	Benefits    []string `json:"benefits"`
}

// ProcessStep is one step of the certification journey.
type ProcessStep struct {
	Step        int    `json:"step"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CertificationPage lists certification bodies and the process.
type CertificationPage struct {
	Intro   string              `json:"intro"`
	Bodies  []CertificationBody `json:"bodies"`
	Process []ProcessStep       `json:"process"`
	Stats   []Stat              `json:"stats"`
}
