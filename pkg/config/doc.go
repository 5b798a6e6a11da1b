// Package config loads protoweave configuration from protoweave.yaml with environment overrides.
//
// # Configuration File
//
//	version: v1
//	proto:
//	  roots: [proto]
//	sources:
//	  - path: build/generated/java
//	    target: build/rendered/java
//	    language: java
//	plugins: [uuid, annotation]
//	render:
//	  indent_size: 4
//	  parallel: true
//	  levels:
//	    uuid.random_id: 1
//	    annotation.getter: 1
//	    annotation.class: 2
//
// Relative paths are resolved against the directory holding the file. A source root
// without a target is rendered in place; rendering it again repeats every insertion
// unless protoc regenerated the root in between.
//
// # Environment Overrides
//
//	PROTOWEAVE_PROTO_ROOTS="proto,vendor/proto"
//	PROTOWEAVE_PLUGINS="uuid"
//	PROTOWEAVE_INDENT_SIZE="2"
//	PROTOWEAVE_PARALLEL="true"
//	PROTOWEAVE_LOG_LEVEL="debug"  # debug, info, warn, error
//	PROTOWEAVE_LOG_FORMAT="json"  # text, json
//	PROTOWEAVE_METRICS_ENABLED="true"
//	PROTOWEAVE_METRICS_ADDR=":9090"
//	PROTOWEAVE_TRACING_ENABLED="true"
//	PROTOWEAVE_TRACING_ENDPOINT="localhost:4317"
//	PROTOWEAVE_TRACING_INSECURE="true"
//	PROTOWEAVE_WATCH_DEBOUNCE="500ms"
package config
