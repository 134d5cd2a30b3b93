package domain

// GarmentClass describes which body region a garment targets. The value is
// passed through unmodified to the try-on model.
type GarmentClass string

const (
	FullBody  GarmentClass = "FULL_BODY"
	UpperBody GarmentClass = "UPPER_BODY"
	LowerBody GarmentClass = "LOWER_BODY"
)

// ImageFormat selects the target encoding for a normalized image.
type ImageFormat string

const (
	JPEG ImageFormat = "JPEG"
	PNG  ImageFormat = "PNG"
)

type Message struct {
	ID       int
	ChatID   int64
	Username string
	ImageURL string
	Text     string
}

type Action string

const (
	Typing            Action = "typing"
	SendingPhoto      Action = "sending_photo"
	UploadingDocument Action = "uploading_document"
)

// TryOnParams are the generation parameters of the remote try-on model.
type TryOnParams struct {
	Width    int
	Height   int
	CfgScale float64
	Seed     int64
}

// TryOnRequest carries both normalized images plus the generation parameters.
// SourceImage is a base64 JPEG of the person, ReferenceImage a base64 PNG of
// the garment.
type TryOnRequest struct {
	SourceImage    string
	ReferenceImage string
	GarmentClass   GarmentClass
	Params         TryOnParams
}

// Fitting holds the raw uploaded photos pending a try-on for one chat.
type Fitting struct {
	Person  []byte
	Garment []byte
}
