// Package wiki extracts structured documents from rendered wiki pages.
//
// The wiki site is a client-rendered application, so input here is the
// markup serialised by the headless browser after rendering settled.
// Extraction never fails: markup it cannot understand yields a
// content-absent document and the caller decides what that means.
//
// Sections come from one of two mutually exclusive strategies (custom
// content-block elements, else heading-delimited content). The table of
// contents uses its own heuristic and may disagree with the sections.
// Diagrams are collected by four independent passes.
package wiki
