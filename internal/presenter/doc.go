// Package presenter turns synced entities into the strings the terminal
// viewer renders: distances from the user, opening-hours status and wrapped
// tag lines.
package presenter
