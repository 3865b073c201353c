package domain

// Reference data is seeded by migrations and is read-only to users.

type Village struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Taluka   string `json:"taluka"`
	District string `json:"district"`
}

// GroupKey is the "district - taluka" label used for grouped listings.
func (v Village) GroupKey() string {
	return v.District + " - " + v.Taluka
}

type City struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	State string `json:"state"`
}

type College struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	CityID   int64    `json:"cityId"`
	CityName string   `json:"city"`
	State    string   `json:"state"`
	Courses  []string `json:"courses"`
}

// CollegeFilter narrows college listings. Zero values match everything.
type CollegeFilter struct {
	CityName string // case-insensitive substring
	CityID   int64
	Course   string // exact course name
}

type Department struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

type SubDepartment struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	DepartmentID int64  `json:"departmentId"`
}

var BusinessTypes = []string{
	"Retail", "Manufacturing", "Construction", "Agriculture",
	"Services", "IT & Technology", "Healthcare", "Education",
	"Transport & Logistics", "Food & Hospitality",
	"Textile & Garments", "Real Estate", "Financial Services",
	"Media & Entertainment", "Consulting", "Other",
}

var BusinessFields = []string{
	"Grocery & FMCG", "Clothing & Fashion", "Electronics & Hardware",
	"Construction & Building Materials", "Auto Parts & Accessories",
	"Pharmaceutical & Medical", "Jewellery & Gems", "Furniture & Interiors",
	"Stationery & Office Supplies", "Chemicals & Industrial",
	"Agriculture & Seeds", "Textiles & Fabrics", "Dairy & Food Processing",
	"Printing & Packaging", "Oil & Petroleum", "Handicrafts & Art",
	"Import / Export", "Scrap & Recycling", "Travel & Tourism",
	"Event Management", "Beauty & Wellness", "Photography & Videography",
	"Catering & Food Services", "Transportation & Logistics",
	"Interior Design", "Digital Marketing & IT Services",
	"Coaching & Training", "Property & Real Estate", "Other",
}

var JobFields = []string{
	"Software Development", "IT Consulting", "Data Science & Analytics",
	"IT Support & Helpdesk", "Cybersecurity", "Cloud Computing",
	"Banking", "Insurance", "Accounting & Finance",
	"Oil & Gas", "Infrastructure", "Manufacturing",
	"Healthcare", "Pharmaceuticals", "Education & Training",
	"Government / Public Sector", "Defence",
	"Marketing & Advertising", "Sales", "HR & Recruitment",
	"Law & Legal", "Media & Journalism",
	"Real Estate", "Agriculture", "Textile & Fashion",
	"Automobile", "Telecom", "E-commerce",
	"Hospitality & Tourism", "NGO / Social Work", "Other",
}
