// Package cli provides the interactive gophtasks terminal client.
//
// App is the application root: it opens the local database, builds the
// store, the REST client, the session and sync services and the sync
// scheduler, then runs a REPL over them. Every command works offline; when a
// session is active each change is pushed to the server after the quiet
// window.
//
// Session start restores a saved login and reconciles with the server;
// session end stops the scheduler (finishing any in-flight push) and closes
// the store and database.
package cli
