package component

// Camera marks the entity whose Transform is the view origin for debug
// drawing. Target names an entity to follow.
type Camera struct {
	Zoom       float64
	Target     string
	Smoothness float64
}

var CameraComponent = NewComponent[Camera]()
