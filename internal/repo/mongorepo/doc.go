package mongorepo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pkordes/bootcamp-api/internal/domain"
)

// bootcampDoc is the stored shape of a bootcamp.
type bootcampDoc struct {
	ID            primitive.ObjectID `bson:"_id"`
	Name          string             `bson:"name"`
	Slug          string             `bson:"slug"`
	Description   string             `bson:"description"`
	Website       string             `bson:"website,omitempty"`
	Phone         string             `bson:"phone,omitempty"`
	Email         string             `bson:"email,omitempty"`
	Address       string             `bson:"address,omitempty"`
	Location      *locationDoc       `bson:"location,omitempty"`
	Careers       []string           `bson:"careers"`
	AverageRating *float64           `bson:"averageRating,omitempty"`
	AverageCost   *float64           `bson:"averageCost,omitempty"`
	Photo         string             `bson:"photo"`
	Housing       bool               `bson:"housing"`
	JobAssistance bool               `bson:"jobAssistance"`
	JobGuarantee  bool               `bson:"jobGuarantee"`
	AcceptGi      bool               `bson:"acceptGi"`
	CreatedAt     time.Time          `bson:"createdAt"`
}

// locationDoc is a GeoJSON point; the 2dsphere index reads type and coordinates.
type locationDoc struct {
	Type             string    `bson:"type"`
	Coordinates      []float64 `bson:"coordinates"`
	FormattedAddress string    `bson:"formattedAddress,omitempty"`
	Street           string    `bson:"street,omitempty"`
	City             string    `bson:"city,omitempty"`
	State            string    `bson:"state,omitempty"`
	Zipcode          string    `bson:"zipcode,omitempty"`
	Country          string    `bson:"country,omitempty"`
}

func toDoc(b domain.Bootcamp) bootcampDoc {
	d := bootcampDoc{
		Name:          b.Name,
		Slug:          b.Slug,
		Description:   b.Description,
		Website:       b.Website,
		Phone:         b.Phone,
		Email:         b.Email,
		Address:       b.Address,
		Careers:       b.Careers,
		AverageRating: b.AverageRating,
		AverageCost:   b.AverageCost,
		Photo:         b.Photo,
		Housing:       b.Housing,
		JobAssistance: b.JobAssistance,
		JobGuarantee:  b.JobGuarantee,
		AcceptGi:      b.AcceptGi,
	}
	if d.Careers == nil {
		d.Careers = []string{}
	}
	if l := b.Location; l != nil {
		d.Location = &locationDoc{
			Type:             "Point",
			Coordinates:      []float64{l.Coordinates[0], l.Coordinates[1]},
			FormattedAddress: l.FormattedAddress,
			Street:           l.Street,
			City:             l.City,
			State:            l.State,
			Zipcode:          l.Zipcode,
			Country:          l.Country,
		}
	}
	return d
}

func (d bootcampDoc) toDomain() domain.Bootcamp {
	b := domain.Bootcamp{
		ID:            d.ID.Hex(),
		Name:          d.Name,
		Slug:          d.Slug,
		Description:   d.Description,
		Website:       d.Website,
		Phone:         d.Phone,
		Email:         d.Email,
		Address:       d.Address,
		Careers:       d.Careers,
		AverageRating: d.AverageRating,
		AverageCost:   d.AverageCost,
		Photo:         d.Photo,
		Housing:       d.Housing,
		JobAssistance: d.JobAssistance,
		JobGuarantee:  d.JobGuarantee,
		AcceptGi:      d.AcceptGi,
		CreatedAt:     d.CreatedAt,
	}
	if b.Careers == nil {
		b.Careers = []string{}
	}
	if l := d.Location; l != nil && len(l.Coordinates) == 2 {
		b.Location = &domain.Location{
			Type:             l.Type,
			Coordinates:      [2]float64{l.Coordinates[0], l.Coordinates[1]},
			FormattedAddress: l.FormattedAddress,
			Street:           l.Street,
			City:             l.City,
			State:            l.State,
			Zipcode:          l.Zipcode,
			Country:          l.Country,
		}
	}
	return b
}

// patchToSet builds the $set document for the non-nil fields of p.
func patchToSet(p domain.BootcampPatch) bson.M {
	set := bson.M{}
	for key, v := range map[string]*string{
		"name":        p.Name,
		"description": p.Description,
		"website":     p.Website,
		"phone":       p.Phone,
		"email":       p.Email,
		"address":     p.Address,
		"photo":       p.Photo,
	} {
		if v != nil {
			set[key] = *v
		}
	}
	for key, v := range map[string]*bool{
		"housing":       p.Housing,
		"jobAssistance": p.JobAssistance,
		"jobGuarantee":  p.JobGuarantee,
		"acceptGi":      p.AcceptGi,
	} {
		if v != nil {
			set[key] = *v
		}
	}
	if p.Careers != nil {
		set["careers"] = *p.Careers
	}
	if p.AverageRating != nil {
		set["averageRating"] = *p.AverageRating
	}
	if p.AverageCost != nil {
		set["averageCost"] = *p.AverageCost
	}
	return set
}
