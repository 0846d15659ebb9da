package types

// ContactForm is an incoming contact submission. Nothing is persisted;
// the relay validates and forwards it to the mail transport.
type ContactForm struct {
	Name        string `json:"name" validate:"required,max=200"`
	Email       string `json:"email" validate:"required,email,max=254"`
	Subject     string `json:"subject" validate:"required,max=300"`
	Message     string `json:"message" validate:"required,max=10000"`
	Budget      string `json:"budget,omitempty" validate:"max=200"`
	Timeline    string `json:"timeline,omitempty" validate:"max=200"`
	ProjectType string `json:"projectType,omitempty" validate:"max=200"`
}
