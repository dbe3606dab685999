package model

import "time"

// Movie represents a film offering as stored in the `movies` table.
// A movie is scheduled either in an explicit set of theaters (via the
// movie_theaters join table) or, when that set is empty, in every
// theater known to the system.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – display title of the movie.
//  Description – synopsis shown on the listing page.
//  DurationMin – running time in minutes.
//  ReleaseDate – cinema release date.
//  PosterURL   – location of the poster image (served externally).
//  TrailerURL  – embeddable trailer link; YouTube watch links are
//                normalized to the embed form when the row is saved.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Movie struct {
    ID          uint64    // movies.id
    Title       string    // movies.title
    Description string    // movies.description
    DurationMin uint32    // movies.duration_min
    ReleaseDate time.Time // movies.release_date
    PosterURL   string    // movies.poster_url
    TrailerURL  string    // movies.trailer_url
    CreatedAt   time.Time // movies.created_at
    UpdatedAt   time.Time // movies.updated_at
}

// Theater represents a venue where shows are scheduled.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – venue name.
//  City      – city the venue is located in.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Theater struct {
    ID        uint64    // theaters.id
    Name      string    // theaters.name
    City      string    // theaters.city
    CreatedAt time.Time // theaters.created_at
    UpdatedAt time.Time // theaters.updated_at
}
