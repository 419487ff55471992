// Package normalisers turns markup fetched by the browser into domain
// types. The wiki subpackage extracts documents from rendered wiki pages
// and candidate repositories from the search page.
package normalisers
