// Package imaging loads captcha images and prepares them for OCR.
//
// # Loading
//
// Only PNG and JPEG files are accepted, decided by file extension
// (case-insensitive). ReadImageFile returns the raw bytes so they can be
// handed to the OCR engine unchanged; Decode and LoadImageInfo give access
// to the pixels and dimensions.
//
// # Preprocessing
//
// Preprocess turns a captcha into a clean binary image:
//   - transparent pixels are flattened onto white
//   - speckle noise is removed with a median filter
//   - light-on-dark images are inverted so text is always dark
//   - the image is cropped to its content and upscaled to a minimum height
//   - the result is thresholded to pure black and white
//
// Coordinates follow the image package: (0,0) is the top-left corner and
// rectangles are half-open.
package imaging
