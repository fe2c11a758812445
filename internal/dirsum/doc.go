// Package dirsum provides directory summary collection.
//
// It walks a directory tree exactly once, aggregates file counts and
// on-disk sizes by extension, ranks the largest files and sizes the
// immediate children of the conventional bundle directories
// ("Frameworks" and "Plugins") found directly under the scan root.
package dirsum
