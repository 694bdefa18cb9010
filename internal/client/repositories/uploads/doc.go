// Package uploads keeps a local history of files the user has uploaded, so
// the stored path of an attachment can be looked up again later.
package uploads
