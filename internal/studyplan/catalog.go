package studyplan

// Resource is one curated study pointer, grouped by human-readable topic in
// the catalog. Read-only reference data, not user-owned.
type Resource struct {
	Title string `json:"title"`
	Type  string `json:"type"` // Article, Video, Guide
	URL   string `json:"url"`
}

// GeneralMaterial is a study resource shown to every student regardless of
// quiz performance.
type GeneralMaterial struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	URL         string `json:"url"`
}

// DefaultTopicMap translates course identifiers into the topic names the
// resource catalog is keyed by. Courses without an entry keep their own ID.
var DefaultTopicMap = map[string]string{
	"softwareEngineering": "Software Engineering",
	"dataStructures":      "Data Structures",
}

// DefaultCatalog maps topic name to curated resources. A flagged topic with
// no entry here yields no recommendations, which is a valid outcome.
var DefaultCatalog = map[string][]Resource{
	"Software Engineering": {
		{
			Title: "Software Engineering Principles - Article",
			Type:  "Article",
			URL:   "https://example.com/software-engineering-principles",
		},
	},
	"Data Structures": {
		{
			Title: "Data Structures Basics - Video",
			Type:  "Video",
			URL:   "https://www.khanacademy.org/computing/computer-science/algorithms",
		},
		{
			Title: "Data Structures Study Guide PDF",
			Type:  "Guide",
			URL:   "/resources/data-structures-guide.pdf",
		},
	},
}

// GeneralMaterials is the fixed list shown under the personalized section.
var GeneralMaterials = []GeneralMaterial{
	{
		Title:       "Effective Study Techniques",
		Description: "Learn proven methods to improve your study habits and retention.",
		Type:        "Article",
		URL:         "https://learningcenter.unc.edu/tips-and-tools/studying-101-study-smarter-not-harder/",
	},
	{
		Title:       "Time Management for Students",
		Description: "Master your schedule with these time management strategies.",
		Type:        "Article",
		URL:         "https://summer.harvard.edu/blog/8-time-management-tips-for-students/",
	},
	{
		Title:       "Note-Taking Strategies",
		Description: "Explore various note-taking methods to find what works best for you.",
		Type:        "Guide",
		URL:         "https://www.notion.com/help/guides",
	},
	{
		Title:       "Mind Mapping Tutorial",
		Description: "Visualize your ideas and organize information effectively.",
		Type:        "Video",
		URL:         "https://youtu.be/g7j_CoKD1Xs",
	},
}
