// Package handler implements the HTTP API over a phone network.
//
// # Routes
//
//	GET    /api/network                     switchboard status
//	POST   /api/switchboards                add a switchboard
//	POST   /api/trunks                      connect two switchboards
//	POST   /api/switchboards/{area}/phones  add a phone
//	GET    /api/route?from=&to=             find a trunk route
//	GET    /api/calls                       active calls (?history=true for ended calls)
//	POST   /api/calls                       start a call
//	DELETE /api/calls/{phone}               end the call a phone is in
//	POST   /api/network/save                save a snapshot
//	POST   /api/network/load                load a snapshot
//	GET    /events                          server-sent network events
//
// Save and load filenames are relative to the handler's data directory;
// absolute paths and names that leave it are rejected with 400.
//
// # Response Format
//
// Success responses return JSON data with 200 or 201. Error responses return
// JSON with {error, details}; the status is derived from the domain error
// kind (not found 404, duplicate and busy 409, invalid input 400,
// unreachable 422, storage failure 500).
package handler
