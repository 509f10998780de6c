// Package identity derives deterministic asset identities from painting
// metadata.
//
// An identity key is the slugified artist and title joined by a hyphen,
// optionally suffixed with the slugified year when two paintings would
// otherwise share a key:
//
//	identity.BuildKey("Paul Cézanne", "The Bathers (large)", "")  // "paul-cézanne-the-bathers"
//	identity.BuildFilename("Ann Lee", "Study", "1990", ".jpg")    // "ann-lee-study-1990.jpg"
//
// FindCollisions reports the paintings that share a base filename and
// whether their year-suffixed filenames are unique.
package identity
