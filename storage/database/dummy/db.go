// Package dummydb is an in-memory database holding a content catalog.
// Tables are filled once by Open and never written afterwards,
// so concurrent readers need no locking.
package dummydb

import "github.com/trezcool/aucontent/core/content"

type (
	DB struct {
		plays  *playTable
		movies *movieTable
	}

	playTable struct {
		rows  []content.Play
		index map[string]int // {id: position}
	}

	movieTable struct {
		rows  []content.Movie
		index map[string]int // {id: position}
	}
)

// Open loads a copy of the catalog into a new DB.
func Open(cat content.Catalog) *DB {
	cat = cat.Clone()
	db := &DB{
		plays:  &playTable{rows: cat.Plays, index: make(map[string]int, len(cat.Plays))},
		movies: &movieTable{rows: cat.Movies, index: make(map[string]int, len(cat.Movies))},
	}
	for i, p := range cat.Plays {
		if _, dup := db.plays.index[p.ID]; !dup {
			db.plays.index[p.ID] = i // first one wins, like a linear scan
		}
	}
	for i, m := range cat.Movies {
		if _, dup := db.movies.index[m.ID]; !dup {
			db.movies.index[m.ID] = i
		}
	}
	return db
}
