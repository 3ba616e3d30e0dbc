package main

// Toy is a record of the /toys REST resource.
type Toy struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"` // URL
	Likes int    `json:"likes"`
}

// Placeholder values sent with every new toy. They are not derived from
// server state.
const (
	newToyID    = 4
	newToyLikes = 4
)

// ToyPatch holds the fields a PATCH may change. Nil fields are left alone.
type ToyPatch struct {
	Name  *string `json:"name"`
	Image *string `json:"image"`
	Likes *int    `json:"likes"`
}

func (p ToyPatch) apply(t *Toy) {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Image != nil {
		t.Image = *p.Image
	}
	if p.Likes != nil {
		t.Likes = *p.Likes
	}
}
