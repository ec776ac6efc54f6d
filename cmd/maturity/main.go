// Command maturity values with-profits policies at maturity and writes the
// results to an XML document.
//
// Usage:
//
//	# Value every stored policy and write ./xml/MaturityDataResults.xml
//	maturity run
//
//	# Fill the store with a demo portfolio first
//	maturity seed --scenario reference
//
//	# Serve the HTTP API
//	maturity serve --config config.yaml
package main

func main() {
	Execute()
}
