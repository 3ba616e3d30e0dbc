package main

import (
	"context"
	"log"
	"net/url"
)

// toyLister and toyCreator are the halves of ToyClient used by the
// loader and submitter.
type toyLister interface {
	List(ctx context.Context) ([]Toy, error)
}

type toyCreator interface {
	Create(ctx context.Context, toy Toy) (PostResult, error)
}

// Loader renders the remote collection into a page.
type Loader struct {
	toys toyLister
}

func NewLoader(toys toyLister) *Loader {
	return &Loader{toys: toys}
}

// Load appends one card per toy, in response order. When the fetch fails
// the page is left untouched and the error is returned.
func (l *Loader) Load(ctx context.Context, page *Page) error {
	toys, err := l.toys.List(ctx)
	if err != nil {
		return err
	}
	for _, toy := range toys {
		page.AppendCard(toy)
	}
	log.Printf("Rendered %d toys", len(toys))
	return nil
}

// Submitter turns an add-form submission into a new toy.
type Submitter struct {
	toys toyCreator
}

func NewSubmitter(toys toyCreator) *Submitter {
	return &Submitter{toys: toys}
}

// Submit reads the name and image fields and posts a toy built from them.
// Every call sends exactly one request.
func (s *Submitter) Submit(ctx context.Context, form url.Values) (PostResult, error) {
	toy := Toy{
		ID:    newToyID,
		Name:  form.Get("name"),
		Image: form.Get("image"),
		Likes: newToyLikes,
	}
	log.Printf("Submitting toy: %+v", toy)
	return s.toys.Create(ctx, toy)
}
