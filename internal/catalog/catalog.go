package catalog

import (
	"encoding/json"
	"os"
)

// Project is a pre-configured solar site the service knows how to locate.
// LocationToken is the upstream provider's location identifier, when known.
type Project struct {
	ID            string  `json:"project_id"`
	Name          string  `json:"name"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	City          string  `json:"city"`
	LocationToken string  `json:"location_id,omitempty"`
}

// defaultProjects mirrors the deployed site list; overridable via
// WEATHER_PROJECTS_FILE or WEATHER_PROJECTS_JSON.
var defaultProjects = []Project{
	{
		ID:        "1",
		Name:      "台山海宴渔光互补项目",
		Latitude:  21.755591,
		Longitude: 112.565857,
		City:      "江门市台山市",
	},
	{
		ID:        "2",
		Name:      "肇庆四会屋顶项目",
		Latitude:  23.376972,
		Longitude: 112.705725,
		City:      "肇庆市四会市",
	},
	{
		ID:        "3",
		Name:      "珠海香洲近海光伏",
		Latitude:  22.270715,
		Longitude: 113.576722,
		City:      "珠海市香洲区",
	},
}

// Catalog is the read-only set of projects, loaded once at startup.
// Safe for concurrent reads.
type Catalog struct {
	projects []Project
}

// New creates a Catalog from an explicit project list.
func New(projects []Project) *Catalog {
	return &Catalog{projects: projects}
}

// Load builds the catalog from the first usable source:
// a JSON file named by WEATHER_PROJECTS_FILE, the WEATHER_PROJECTS_JSON
// env blob, then the built-in defaults. Malformed sources fall through.
func Load() *Catalog {
	if path := os.Getenv("WEATHER_PROJECTS_FILE"); path != "" {
		if projects := loadFromFile(path); len(projects) > 0 {
			return New(projects)
		}
	}

	if blob := os.Getenv("WEATHER_PROJECTS_JSON"); blob != "" {
		var projects []Project
		if err := json.Unmarshal([]byte(blob), &projects); err == nil && len(projects) > 0 {
			return New(projects)
		}
	}

	return New(defaultProjects)
}

func loadFromFile(path string) []Project {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var projects []Project
	if err := json.Unmarshal(data, &projects); err != nil {
		return nil
	}
	return projects
}

// Find returns the project whose ID or name exactly matches, or nil.
func (c *Catalog) Find(idOrName string) *Project {
	if idOrName == "" {
		return nil
	}
	for i := range c.projects {
		if c.projects[i].ID == idOrName || c.projects[i].Name == idOrName {
			return &c.projects[i]
		}
	}
	return nil
}

// Projects returns the loaded project list.
func (c *Catalog) Projects() []Project {
	return c.projects
}
