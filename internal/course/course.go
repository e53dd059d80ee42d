package course

// Course is one catalog entry a student can enroll in.
type Course struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Selection is a course a student picked, with the running grade attached.
// Marks start at zero on enrollment.
type Selection struct {
	Course
	Marks float64 `json:"marks"`
}

// shortCodes maps legacy short course codes to canonical catalog IDs. Quiz
// starts accept either form.
var shortCodes = map[string]string{
	"SE": "softwareEngineering",
	"CN": "computerNetworks",
	"CS": "computerScience",
	"DS": "dataStructures",
}

// Resolve canonicalizes a course identifier, expanding short codes.
func Resolve(id string) string {
	if canonical, ok := shortCodes[id]; ok {
		return canonical
	}
	return id
}
