// Package app composes the HuntBoard services into a running application.
//
// The package layout follows a composition-over-business-logic split:
//
//	internal/app/
//	├── application.go      # Application struct, wiring, and lifecycle
//	├── domain/             # Domain models and state-machine rules
//	│   ├── application/    # Application aggregate, lifecycle ops, appointments
//	│   ├── appstate/       # State catalog entries
//	│   ├── event/          # Domain event journal entries
//	│   ├── statistics/     # Per-user rejection statistics
//	│   └── user/           # Accounts
//	├── storage/            # Store interfaces plus memory and postgres backends
//	├── services/           # Business services (catalog, applications, users,
//	│                       # alerts, statistics)
//	├── httpapi/            # chi router, handlers, websocket hub, audit trail
//	├── system/             # Background service lifecycle management
//	└── metrics/            # Prometheus registry and instrumentation
//
// Domain packages hold pure rules: lifecycle transitions return violations
// rather than errors so the HTTP layer can render them as a 422. Services own
// persistence, event journaling and clock handling. The app package itself
// only wires stores into services and registers background runners (the
// appointment alert scanner and the statistics aggregation job) with the
// system manager.
package app
