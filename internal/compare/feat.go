package compare

// Category groups feats by topic.
type Category string

const (
	CategoryMusic         Category = "music"
	CategoryConstruction  Category = "construction"
	CategoryNature        Category = "nature"
	CategoryTravel        Category = "travel"
	CategoryEntertainment Category = "entertainment"
	CategoryLiterature    Category = "literature"
	CategorySpace         Category = "space"
	CategoryTechnology    Category = "technology"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryMusic,
	CategoryConstruction,
	CategoryNature,
	CategoryTravel,
	CategoryEntertainment,
	CategoryLiterature,
	CategorySpace,
	CategoryTechnology,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

// Feat is one catalog item: TimeValue minutes of activity equal one Unit.
type Feat struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	TimeValue   float64  `json:"time_value"` // minutes
	Unit        string   `json:"unit"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
}

// Template is a feat without an identity.
type Template struct {
	Name        string
	TimeValue   float64
	Unit        string
	Description string
	Category    Category
}

func (t Template) feat(id string) Feat {
	return Feat{
		ID:          id,
		Name:        t.Name,
		TimeValue:   t.TimeValue,
		Unit:        t.Unit,
		Description: t.Description,
		Category:    t.Category,
	}
}

const (
	hour = 60
	day  = 24 * hour
	year = 365 * day
)

// templates is the fixed table every catalog is generated from.
var templates = []Template{
	{
		Name:        "Parthenon Construction",
		TimeValue:   9 * year,
		Unit:        "of the Parthenon built",
		Description: "The Parthenon in Athens took about 9 years to build (447-438 BCE)",
		Category:    CategoryConstruction,
	},
	{
		Name:        "Great Pyramid of Giza",
		TimeValue:   20 * year,
		Unit:        "of the Great Pyramid built",
		Description: "The Great Pyramid took approximately 20 years to build",
		Category:    CategoryConstruction,
	},
	{
		Name:        "Sleep - Dopesmoker",
		TimeValue:   63,
		Unit:        "complete listens of Dopesmoker by Sleep",
		Description: "The iconic doom metal track Dopesmoker is 63 minutes long",
		Category:    CategoryMusic,
	},
	{
		Name:        "Wagner's Ring Cycle",
		TimeValue:   15 * hour,
		Unit:        "of Wagner's complete Ring Cycle",
		Description: "The full Ring Cycle opera takes about 15 hours to perform",
		Category:    CategoryMusic,
	},
	{
		Name:        "Earth Rotation",
		TimeValue:   day,
		Unit:        "of Earth's rotation",
		Description: "Earth completes one full rotation in 24 hours",
		Category:    CategorySpace,
	},
	{
		Name:        "Apollo 11 Moon Journey",
		TimeValue:   3 * day,
		Unit:        "of an Apollo 11 journey to the Moon",
		Description: "Apollo 11 took about 3 days to reach the Moon from Earth",
		Category:    CategorySpace,
	},
	{
		Name:        "Mount Everest Climb",
		TimeValue:   40 * day,
		Unit:        "of a typical Mount Everest expedition",
		Description: "A typical Mount Everest expedition takes about 40 days",
		Category:    CategoryNature,
	},
	{
		Name:        "The Lord of the Rings",
		TimeValue:   11*hour + 28,
		Unit:        "complete viewings of all Lord of the Rings movies (extended)",
		Description: "The extended editions totaling 11 hours and 28 minutes",
		Category:    CategoryEntertainment,
	},
	{
		Name:        "War and Peace",
		TimeValue:   33 * hour,
		Unit:        "of War and Peace audiobook",
		Description: "The unabridged audiobook is about 33 hours long",
		Category:    CategoryLiterature,
	},
	{
		Name:        "Mariana Trench Dive",
		TimeValue:   4 * hour,
		Unit:        "of a descent to the Mariana Trench",
		Description: "It takes about 4 hours to descend to the bottom of the Mariana Trench",
		Category:    CategoryNature,
	},
	{
		Name:        "Commercial Flight - NY to Tokyo",
		TimeValue:   14 * hour,
		Unit:        "of a flight from New York to Tokyo",
		Description: "A direct flight from New York to Tokyo takes about 14 hours",
		Category:    CategoryTravel,
	},
	{
		Name:        "Human Cell Replication",
		TimeValue:   day,
		Unit:        "of human cell replication cycles",
		Description: "Human cells typically take 24 hours to replicate",
		Category:    CategoryNature,
	},
	{
		Name:        "International Space Station Orbit",
		TimeValue:   90,
		Unit:        "ISS orbits of Earth",
		Description: "The ISS orbits Earth once every 90 minutes",
		Category:    CategorySpace,
	},
	{
		Name:        "Windows XP Installation",
		TimeValue:   40,
		Unit:        "Windows XP installations",
		Description: "A typical Windows XP installation took about 40 minutes",
		Category:    CategoryTechnology,
	},
	{
		Name:        "Brewing Espresso",
		TimeValue:   0.5,
		Unit:        "espresso shots brewed",
		Description: "A typical espresso shot takes about 30 seconds to brew",
		Category:    CategoryEntertainment,
	},
	{
		Name:        "Vinyl Record Side",
		TimeValue:   23,
		Unit:        "vinyl record sides played",
		Description: "A typical vinyl record side plays for about 23 minutes",
		Category:    CategoryMusic,
	},
	{
		Name:        "Light from Sun to Earth",
		TimeValue:   8.3,
		Unit:        "times light travels from the Sun to Earth",
		Description: "Light takes about 8.3 minutes to travel from the Sun to Earth",
		Category:    CategorySpace,
	},
	{
		Name:        "Boiling Water",
		TimeValue:   5,
		Unit:        "kettles of water boiled",
		Description: "It takes about 5 minutes to bring water to a boil",
		Category:    CategoryNature,
	},
	{
		Name:        "Titanic Sinking",
		TimeValue:   2*hour + 40,
		Unit:        "of the time it took for the Titanic to sink",
		Description: "The Titanic took 2 hours and 40 minutes to sink after hitting the iceberg",
		Category:    CategoryEntertainment,
	},
	{
		Name:        "Entire Beatles Discography",
		TimeValue:   10 * hour,
		Unit:        "complete listens of the Beatles studio albums",
		Description: "All 13 Beatles studio albums take about 10 hours to listen to",
		Category:    CategoryMusic,
	},
}
