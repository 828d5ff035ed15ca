package editform

import "regexp"

// Shapes shared by the institution profile fields. The letters pattern
// accepts Spanish accented characters.
var (
	lettersPattern = regexp.MustCompile(`^[a-zA-ZáéíóúÁÉÍÓÚñÑ\s]+$`)
	emailPattern   = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern   = regexp.MustCompile(`^(\+593\s?)?(\(?\d{1,3}\)?[\s\-]?)?\d{3,4}[\s\-]?\d{3,4}$`)
	websitePattern = regexp.MustCompile(`^https?://.+`)
)

// InstitutionProfile is the canned configuration for the school profile
// edit form. Email, phone and the institution name are critical: their
// first modification needs an explicit acknowledgement.
func InstitutionProfile() Config {
	return Config{
		Fields: []string{
			"institutionName", "institutionType", "address", "city", "province",
			"buildings", "classrooms", "laboratories", "email", "phone", "website",
		},
		Critical: []string{"email", "phone", "institutionName"},
		Rules: map[string]Rule{
			"institutionName": {
				Required: true, MinLen: 3, MaxLen: 100,
				Pattern: lettersPattern, Message: "only letters and spaces allowed",
			},
			"institutionType": {Required: true},
			"address":         {Required: true, MinLen: 10, MaxLen: 200},
			"city": {
				Required: true, MinLen: 2,
				Pattern: lettersPattern, Message: "only letters and spaces allowed",
			},
			"province":   {Required: true},
			"buildings":  {Required: true, Min: intPtr(1), Max: intPtr(100)},
			"classrooms": {Required: true, Min: intPtr(1), Max: intPtr(1000)},
			"laboratories": {
				Min: intPtr(0), Max: intPtr(100),
			},
			"email": {
				Required: true, MaxLen: 100,
				Pattern: emailPattern, Message: "invalid email format",
			},
			"phone": {
				Required: true,
				Pattern:  phonePattern, Message: "invalid phone format",
			},
			"website": {
				Pattern: websitePattern, Message: "URL must include http:// or https://",
			},
		},
	}
}
