// Package commands defines the gsactl CLI.
//
// Commands
//
//   - filter    Normalize a filter term and move it between pages
//   - list      Log in to gsad and print the id and name of the entities of a type
//   - types     Print the supported entity types
//
// The root command builds the GMP client from the persistent flags before a
// subcommand runs. Flags fall back to the GSA_URL, GSA_USER and GSA_PASSWORD
// environment variables.
package commands
