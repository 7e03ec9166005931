package services

import "github.com/dmitrijs2005/weddingkeeper/internal/models"

var seedPhotos = []struct{ file, alt string }{
	{"b6e45c66-58d4-4694-96aa-c657e7fbaa63", "Close up portrait of couple"},
	{"ed2a6010-65ce-4af8-8661-e611da5c82f1", "Couple in traditional attire near a building"},
	{"b3d92506-d627-4cbe-85a2-4162089d3dff", "Couple at formal event"},
	{"a7e97d44-2d65-4a6d-817e-382f9c5fd284", "Intimate couple portrait"},
	{"bc073771-431b-48b8-ba52-920998e63bad", "Couple at the beach"},
	{"aa80edb3-29cc-479d-8302-d08b6460e990", "Couple posing outdoors"},
	{"b6dce6db-659f-4c64-8b66-9e25a1392636", "Couple in elegant attire"},
	{"f3e0868b-eed1-4846-ad71-ec92cb64160d", "Couple dancing at the beach"},
	{"a63255d5-5d0d-4b63-bf6e-67d3db27e43d", "Couple with vintage items at the beach"},
	{"11b702fc-8586-4a29-9675-a1aedd542305", "Couple in traditional attire at historic location"},
	{"f4ce0d7a-c8fd-4bd1-bdd2-e48dcb2f0500", "Couple in garden setting"},
}

// SeedPhotos is the demo gallery shown when nothing else is available.
// Every call returns a fresh slice.
func SeedPhotos() []models.PhotoItem {
	out := make([]models.PhotoItem, len(seedPhotos))
	for i, p := range seedPhotos {
		out[i] = models.PhotoItem{
			ID:    "seed-" + p.file,
			Src:   "/lovable-uploads/" + p.file + ".png",
			Alt:   p.alt,
			Order: models.IntPtr(i),
		}
	}
	return out
}

// SeedTimeline is the default schedule: a ceremony and a reception.
func SeedTimeline() []models.TimelineEvent {
	return []models.TimelineEvent{
		{ID: "seed-ceremony", Title: "Ceremony", Time: "10:00 AM", Description: "Main wedding ceremony at the venue", Order: 0},
		{ID: "seed-reception", Title: "Reception", Time: "6:00 PM", Description: "Dinner and celebrations", Order: 1},
	}
}

var (
	DefaultTheme = models.ThemeColors{
		Primary:    "#8B0000",
		Secondary:  "#D4AF37",
		Accent:     "#FDF8F0",
		Background: "#FFFFFF",
		Text:       "#333333",
	}

	DefaultVenue = models.VenueInfo{
		Name:    "Wedding Venue",
		Address: "Kochi, Kerala",
		MapsURL: "https://maps.app.goo.gl/tQCb8FZ4Cjnag58i6",
	}

	DefaultDetails = models.WeddingDetails{
		GroomName:   "Aswin",
		BrideName:   "Priya",
		WeddingDate: "December 25, 2024",
		Story:       "Our love story began when we met at a coffee shop...",
	}
)
