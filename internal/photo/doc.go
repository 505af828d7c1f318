// Package photo handles the photos a learner attaches for translation.
//
// A photo is identified by a Ref. Pickers produce Refs (from a path on the
// command line, a file dialog, or an upload), and Store keeps uploaded
// photos on disk with a size limit. Only the image type is checked here;
// reading text out of a photo is the job of package ocr.
package photo
