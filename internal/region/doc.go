// Package region turns tap and drag gestures on a displayed image into
// normalized selection regions and produces JPEG crops for identification.
package region
