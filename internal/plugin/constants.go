// Package plugin holds what the Neo4j source and sink share: the property
// surface, the connection settings, and the error kinds reported to the host.
package plugin

// Property names understood by the source and the sink.
const (
	PropertyReferenceName = "referenceName"
	PropertyHost          = "neo4jHost"
	PropertyPort          = "neo4jPort"
	PropertyUsername      = "username"
	PropertyPassword      = "password"
	PropertyInputQuery    = "inputQuery"
	PropertyOutputQuery   = "outputQuery"
	PropertySplitNum      = "splitNum"
	PropertyOrderBy       = "orderBy"
)

// ConnectionStringFormat is the JDBC-style connection string understood by the
// Neo4j JDBC driver. Arguments: host, port, username, password.
const ConnectionStringFormat = "jdbc:neo4j:bolt://%s:%d/?username=%s,password=%s"
