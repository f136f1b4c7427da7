package domain

import (
	"fmt"
	"time"
)

// WorkFamily is one of the nine base archetypes of the Neural Ennead
type WorkFamily struct {
	Code        string   `json:"code"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
	Traits      []string `json:"traits"`
}

// workFamilies is ordered around the ennead ring; neighbours matter for team assembly.
var workFamilies = []*WorkFamily{
	{
		Code:        "VIS",
		Name:        "Visionary",
		Description: "Sets long-range direction and imagines desirable futures",
		Keywords:    []string{"future", "vision", "foresight", "innovation", "strategy", "transformation"},
		Traits:      []string{"imaginative", "strategic"},
	},
	{
		Code:        "ARC",
		Name:        "Architect",
		Description: "Designs systems and the structures that hold them together",
		Keywords:    []string{"systems", "design", "structure", "complexity", "cybernetics", "architecture"},
		Traits:      []string{"structured", "holistic"},
	},
	{
		Code:        "CAT",
		Name:        "Catalyst",
		Description: "Triggers change and mobilizes people around it",
		Keywords:    []string{"change", "entrepreneurship", "disruption", "movement", "activism", "leadership"},
		Traits:      []string{"energetic", "persuasive"},
	},
	{
		Code:        "GUA",
		Name:        "Guardian",
		Description: "Protects rights, safety and the rules of fair play",
		Keywords:    []string{"ethics", "governance", "privacy", "rights", "regulation", "safety"},
		Traits:      []string{"principled", "vigilant"},
	},
	{
		Code:        "ANA",
		Name:        "Analyst",
		Description: "Measures, models and explains behaviour with evidence",
		Keywords:    []string{"data", "economics", "decision", "behavioral", "statistics", "research"},
		Traits:      []string{"rigorous", "skeptical"},
	},
	{
		Code:        "CON",
		Name:        "Connector",
		Description: "Builds networks, communities and shared resources",
		Keywords:    []string{"network", "community", "collaboration", "commons", "social", "collective"},
		Traits:      []string{"empathic", "convening"},
	},
	{
		Code:        "BUI",
		Name:        "Builder",
		Description: "Turns ideas into working technology",
		Keywords:    []string{"engineering", "technology", "automation", "software", "open-source", "computing"},
		Traits:      []string{"pragmatic", "hands-on"},
	},
	{
		Code:        "HEA",
		Name:        "Healer",
		Description: "Cares for wellbeing of people and the planet",
		Keywords:    []string{"health", "wellbeing", "psychology", "care", "medicine", "sustainability"},
		Traits:      []string{"compassionate", "restorative"},
	},
	{
		Code:        "SAG",
		Name:        "Sage",
		Description: "Holds knowledge, history and philosophical perspective",
		Keywords:    []string{"philosophy", "wisdom", "history", "knowledge", "learning", "education"},
		Traits:      []string{"reflective", "wise"},
	},
}

// EnneadSize is the number of base work families
const EnneadSize = 9

// WorkFamilies returns the nine base families in ring order
func WorkFamilies() []*WorkFamily {
	out := make([]*WorkFamily, len(workFamilies))
	copy(out, workFamilies)
	return out
}

// WorkFamilyByCode looks up a family by code
func WorkFamilyByCode(code string) (*WorkFamily, bool) {
	for _, f := range workFamilies {
		if f.Code == code {
			return f, true
		}
	}
	return nil, false
}

// RingNeighbours returns the two families adjacent to code on the ennead ring
func RingNeighbours(code string) (prev, next *WorkFamily, ok bool) {
	for i, f := range workFamilies {
		if f.Code == code {
			n := len(workFamilies)
			return workFamilies[(i+n-1)%n], workFamilies[(i+1)%n], true
		}
	}
	return nil, nil, false
}

// Persona is one synthetic organizational persona of the Neural Ennead
type Persona struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Primary   string    `json:"primary_family"`
	Secondary string    `json:"secondary_family"`
	Tertiary  string    `json:"tertiary_family"`
	Traits    []string  `json:"traits"`
	CreatedAt time.Time `json:"created_at"`
}

// PersonaCode builds the deterministic persona code for three families
func PersonaCode(primary, secondary, tertiary string) string {
	return fmt.Sprintf("%s-%s-%s", primary, secondary, tertiary)
}

// NewPersona composes a persona from three families
func NewPersona(primary, secondary, tertiary *WorkFamily) *Persona {
	traits := make([]string, 0, len(primary.Traits)+len(secondary.Traits)+len(tertiary.Traits))
	traits = append(traits, primary.Traits...)
	traits = append(traits, secondary.Traits...)
	traits = append(traits, tertiary.Traits...)

	return &Persona{
		ID:        GenerateID(),
		Code:      PersonaCode(primary.Code, secondary.Code, tertiary.Code),
		Name:      fmt.Sprintf("%s (%s, %s)", primary.Name, secondary.Name, tertiary.Name),
		Primary:   primary.Code,
		Secondary: secondary.Code,
		Tertiary:  tertiary.Code,
		Traits:    traits,
		CreatedAt: time.Now(),
	}
}

// TeamMember pairs a work family with its best aligned thinker
type TeamMember struct {
	Family      *WorkFamily `json:"family"`
	Thinker     *Thinker    `json:"thinker"`
	PersonaCode string      `json:"persona_code"`
}

// Team is an assembled Neural Ennead
type Team struct {
	Members   []TeamMember `json:"members"`
	Vacancies []string     `json:"vacancies,omitempty"` // Family codes with no aligned thinker
}

// SeedResult reports the outcome of persona seeding
type SeedResult struct {
	Generated int `json:"generated"`
	Total     int `json:"total"`
}
