// Package ioutils provides file system and image processing utilities.
//
// # File Operations
//
//	// Write an asset atomically
//	err := ioutils.WriteFile(ctx, "/images/ann-lee-study-1990.jpg", data)
//
//	// Hash a cached asset
//	sum, err := ioutils.HashFile("/images/ann-lee-study-1990.jpg")
//
//	// List cached assets
//	names, err := ioutils.ListFiles("/images", ".jpg")
//
// # Image Processing
//
// The ImageService turns downloaded bytes into a JPEG asset:
//
//	svc := ioutils.NewImageService(ioutils.ImageOptions{ConvertToJPG: true, MaxDimension: 2048})
//	data, err := svc.Normalize(ctx, downloaded)
package ioutils
