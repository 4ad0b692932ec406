// Package deps crawls a package registry and turns a package's dependency
// tree into a box tower graph.
//
// A [Fetcher] answers "what does this package depend on". [Registry] asks
// it for the root, then breadth-first for every dependency not seen yet,
// with a bounded number of requests in flight. Once the crawl is done the
// graph is assembled depth-first, so every package is inserted after its
// dependencies, which is the order [dag.DAG] and the BOX format require:
//
//	g, err := deps.NewRegistry("npm", deps.NPM(npm.NewClient(c, ttl))).
//	    Resolve(ctx, "nearley", deps.Options{MaxDepth: 4})
//	boxfile.Write(os.Stdout, g)
//
// Registry names may use characters BOX names cannot (npm scopes such as
// "@babel/core", Homebrew versions such as "openssl@3"). Those nodes get a
// sanitized id and keep the real name as their label. Dependency cycles,
// which registries allow, are broken by dropping the edge that closes the
// cycle.
package deps
