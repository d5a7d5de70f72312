// Package fivek models the MIT-Adobe FiveK dataset layout.
//
// The dataset publishes one listing page at Root whose body embeds
// relative paths of the form img/tiff16_<expert>/<name>.tif, where
// <expert> is one of five single-character retouching-style codes and
// <name> starts with the expert letter followed by a 4-digit image
// index.
//
// # Usage
//
//	tasks, err := fivek.Extract(body, []string{"a", "b"}, 289, 300)
//	for _, task := range tasks {
//	    // task.RemotePath is fetched from Root,
//	    // task.Key is where the image is stored.
//	}
package fivek
