package component

type TargetTag struct{}

var TargetTagComponent = NewComponent[TargetTag]()

type ChaserTag struct{}

var ChaserTagComponent = NewComponent[ChaserTag]()

type CameraTag struct{}

var CameraTagComponent = NewComponent[CameraTag]()
