// Package upload implements the file upload widget: pick a document, a
// gallery image or a camera photo, normalize images, check the result
// against a size/type policy, send it to the upload endpoint and report the
// outcome to the embedding screen.
//
// # Lifecycle
//
//	Idle → Selecting → Previewing → Uploading → Idle
//
// Previewing returns to Idle on Discard. Every failure is terminal for the
// current attempt: the widget notifies the user, calls Config.OnError and
// goes back to Idle. Nothing is retried automatically.
//
// # Concurrency
//
// A Widget is safe for concurrent use. At most one file is in flight per
// widget; ConfirmUpload and UploadFile block until the transport returns and
// CancelUpload may be called from another goroutine to abort it.
//
// # Platform
//
// Pickers, the camera, permission prompts and metadata probing are supplied
// by the host through the DocumentPicker, ImagePicker, Camera, Permissions
// and FileProber interfaces.
package upload
