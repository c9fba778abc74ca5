// Package inventory holds the Rackdock domain model and its SQLite
// persistence: racks, the devices mounted in them, and the ports wired
// between devices.
//
// # Key Types
//
//   - Rack: a physical equipment rack, units indexed 1..Height from the bottom
//   - Device: equipment occupying [UPosition, UPosition+UHeight-1] in one rack
//   - Port: a network/power port; connections are a symmetric adjacency
//     maintained atomically by the port repository
//
// # Repositories
//
// Each entity has an interface plus a SQLite implementation taking a
// *sql.DB. Deletion cascades follow the schema: removing a rack removes
// its devices and their ports; removing a connected port nulls the
// surviving peer's reference.
//
// # Validation
//
// Write-time validation checks names and local geometry (position and
// height at least 1). It intentionally does not reject devices that
// overlap each other or hang past the rack boundary: such rows exist in
// imported historical data, and the elevation engine renders them
// best-effort with diagnostics rather than failing the view.
package inventory
