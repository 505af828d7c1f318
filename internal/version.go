package internal

// Version is the polyglot release version, reported by --version and the GUI title.
const Version = "0.4.0"
