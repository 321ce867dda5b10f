// Package dialect decides whether a file is analysed as C or C++.
//
// The extension decides when it can (.c is C, .cpp/.hpp and friends are C++).
// For .h files and unknown extensions the lexer feeds Evidence while scanning
// (C++-only keywords, std:: qualification, extension-less standard headers)
// and Classifier scores it. Evidence collection never changes scanning.
package dialect
