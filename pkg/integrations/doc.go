// Package integrations holds the HTTP plumbing shared by the package
// registry clients in its subpackages.
//
// A [Client] issues JSON GET requests with default headers, retries network
// failures and 5xx answers with backoff, and keeps decoded responses in a
// [cache.Cache] so repeated scrapes of the same tree stay offline.
//
// Subpackages:
//
//   - npm: the npm registry (registry.npmjs.org)
//   - brew: the Homebrew formula API (formulae.brew.sh)
//
// Both feed [deps.Registry], which turns what they return into a BOX file.
package integrations
