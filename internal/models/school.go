package models

import (
	"bytes"
	"encoding/json"
)

// BookElement is one physical item bundled in a book package
type BookElement struct {
	Titulo   Text   `json:"Titulo"`
	Cantidad Number `json:"Cantidad"`
}

// Book is a catalog entry on a school's supply list
type Book struct {
	ID        Number                   `json:"Id"`
	Titulo    Text                     `json:"Titulo"`
	Precio    Number                   `json:"Precio"`
	Descuento Number                   `json:"Descuento"`
	Unidades  Number                   `json:"Unidades"`
	Seleccion Text                     `json:"Seleccion"`
	Paquete   Flag                     `json:"Paquete"`
	Digital   Flag                     `json:"Digital"`
	Elementos IndexedList[BookElement] `json:"Elementos"`
}

// BookList is the list of books a school requires for one group and grade
type BookList struct {
	ID          Number            `json:"Id"`
	Grupo       Text              `json:"Grupo"`
	Grado       Text              `json:"Grado"`
	Desde       Text              `json:"Desde"`
	Hasta       Text              `json:"Hasta"`
	Observacion Text              `json:"Observacion"`
	Libros      IndexedList[Book] `json:"Libros"`
}

// School is an institution record as returned by /escuela/consulta
type School struct {
	ID              Number                `json:"Id"`
	Nombre          Text                  `json:"Nombre"`
	Logo            Text                  `json:"Logo"`
	TipoLogo        Text                  `json:"Tipo_Logo"`
	Activo          Flag                  `json:"Activo"`
	RFedex          Flag                  `json:"R_fedex"`
	RSucursal       Flag                  `json:"R_Sucursal"`
	CostoFedex      Number                `json:"Costo_Fedex"`
	CostoLocal      Number                `json:"Costo_Local"`
	Observacion     Text                  `json:"Observacion"`
	EntregaMixta    Flag                  `json:"Entrega_Mixta"`
	EntregaEscuela  Flag                  `json:"Entrega_Escuela"`
	ObsEscuela      Text                  `json:"Obs_Escuela"`
	EntregaSucursal Flag                  `json:"Entrega_Sucursal"`
	ObsSucursal     Text                  `json:"Obs_Sucursal"`
	Matricula       Flag                  `json:"Matricula"`
	MObligatoria    Flag                  `json:"M_Obligatoria"`
	Listas          IndexedList[BookList] `json:"Listas"`
}

// LinkedSchoolCodes is the /escuela/vinculados payload: an array or an
// index-keyed object of institution codes. Non-string entries are dropped.
type LinkedSchoolCodes []string

func (c *LinkedSchoolCodes) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*c = LinkedSchoolCodes{}
		return nil
	}

	var values []json.RawMessage
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &values); err != nil {
			return err
		}
	case '{':
		var keyed map[string]json.RawMessage
		if err := json.Unmarshal(data, &keyed); err != nil {
			return err
		}
		for _, key := range OrderedKeys(keyed) {
			values = append(values, keyed[key])
		}
	}

	codes := make(LinkedSchoolCodes, 0, len(values))
	for _, raw := range values {
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '"' {
			continue
		}
		var code string
		if err := json.Unmarshal(raw, &code); err != nil {
			continue
		}
		codes = append(codes, code)
	}
	*c = codes
	return nil
}

// SchoolResult is the outcome of a single school lookup
type SchoolResult struct {
	Success bool        `json:"success"`
	Data    *School     `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Status  int         `json:"status,omitempty"`
	Failure FailureKind `json:"-"`
}

// SchoolsResult is the outcome of listing the schools linked to a user
type SchoolsResult struct {
	Success bool        `json:"success"`
	Schools []School    `json:"escuelas"`
	Message string      `json:"message,omitempty"`
	Status  int         `json:"status,omitempty"`
	Failure FailureKind `json:"-"`
}

// LinkSchoolRequest is the payload for linking a school to the session user
type LinkSchoolRequest struct {
	Code string `json:"codigoweb" binding:"required"`
}

// DashboardResult is what the dashboard shows: who is logged in and their schools
type DashboardResult struct {
	Success bool           `json:"success"`
	Profile *ProfileResult `json:"profile"`
	Schools []School       `json:"escuelas"`
	Message string         `json:"message,omitempty"`
}
