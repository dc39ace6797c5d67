// Package layout turns canonical document text into styled, paginated blocks.
//
// Rendering happens in four steps:
//
//  1. Classify assigns one Role per line using the ordered Rules table.
//  2. Each role maps to a block with a fixed style; text is escaped for
//     markup backends.
//  3. Blocks are wrapped with an average glyph width metric and flowed into
//     pages whose capacity is the page height minus margins and the
//     header/footer bands.
//  4. A fixed disclaimer is appended.
//
// Backends draw the result page by page through Document.Emit, which supplies
// the header and footer for every page. Styles are tokens of the "legal"
// go-theme manifest so variants can retune sizes without code changes.
package layout
