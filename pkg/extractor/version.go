package extractor

// Version identifies the export document format written into the
// consolidated export metadata.
const Version = "3.1"
