// Package internal contains the core implementation packages for stylegen.
//
// # Package Organization
//
// The internal packages are organized by functional domain:
//
//   - stylesheet: Declaration, rule and section model, CSS text compilation,
//     shape validation and the category registry
//   - catalog: Builder documents, the embedded Layera builders and project
//     directory loading
//   - generator: Validating and writing stylesheets to the output directory
//   - lint: Tokenizer-based checks of compiled CSS
//   - styleguide: The HTML style guide page
//   - server: Preview HTTP server with live reload
//   - websocket: Reload broadcast hub
//   - watcher: File system monitoring with debouncing
//   - config: Configuration management with validation
//   - errors: Structured error types
//   - logging: Structured logging
//   - version: Build information
//
// # Data Flow
//
// Catalog loads builders. Generator, lint, styleguide and server consume a
// loaded catalog. Watcher reports changed builder documents, after which the
// catalog is reloaded and either rebuilt to disk or swapped into the server,
// which tells open pages to reload.
package internal
