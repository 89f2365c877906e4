package database

import (
	"time"

	"github.com/uptrace/bun"
)

// User is the usuarios row. Emails are stored lowercased and trimmed so the
// unique constraint is effectively case-insensitive.
type User struct {
	bun.BaseModel `bun:"table:usuarios,alias:u"`

	ID                   int64      `bun:"id,pk,autoincrement"`
	Email                string     `bun:"email,notnull,unique"`
	PasswordHash         string     `bun:"password,notnull"`
	Username             string     `bun:"username,notnull"`
	FechaNacimiento      time.Time  `bun:"fecha_nacimiento,notnull"`
	ResetPasswordToken   *string    `bun:"reset_password_token,type:text"`
	ResetPasswordExpires *time.Time `bun:"reset_password_expires"`
	CreatedAt            time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt            time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type Movie struct {
	bun.BaseModel `bun:"table:peliculas,alias:p"`

	ID           int64  `bun:"id,pk,autoincrement"`
	Titulo       string `bun:"titulo,notnull"`
	Duracion     int    `bun:"duracion,notnull"`
	Largometraje string `bun:"largometraje,notnull,unique,type:varchar(512)"`
	Actores      string `bun:"actores"`
	Anio         int    `bun:"anio"`
	Disponible   bool   `bun:"disponible,notnull,default:true"`
	Sinopsis     string `bun:"sinopsis,type:text"`
	Trailer      string `bun:"trailer"`
	Director     string `bun:"director"`
	Portada      string `bun:"portada"`
	IdiomaID     *int64 `bun:"idioma_id"`

	Genres []Genre `bun:"m2m:catalogo,join:Movie=Genre"`
}

type Genre struct {
	bun.BaseModel `bun:"table:generos,alias:g"`

	ID     int64  `bun:"id,pk,autoincrement"`
	Nombre string `bun:"nombre,notnull,unique,type:varchar(100)"`
}

// CatalogEntry links a movie to a genre
type CatalogEntry struct {
	bun.BaseModel `bun:"table:catalogo,alias:c"`

	ID         int64  `bun:"id,pk,autoincrement"`
	PeliculaID int64  `bun:"pelicula_id,notnull,unique:catalogo_pelicula_genero"`
	Movie      *Movie `bun:"rel:belongs-to,join:pelicula_id=id"`
	GeneroID   int64  `bun:"genero_id,notnull,unique:catalogo_pelicula_genero"`
	Genre      *Genre `bun:"rel:belongs-to,join:genero_id=id"`
}

// Preference is a gustos row. At most one exists per (user, movie).
type Preference struct {
	bun.BaseModel `bun:"table:gustos,alias:gu"`

	ID         int64     `bun:"id,pk,autoincrement"`
	UserID     int64     `bun:"user_id,notnull,unique:gustos_user_pelicula"`
	PeliculaID int64     `bun:"pelicula_id,notnull,unique:gustos_user_pelicula"`
	Favorito   bool      `bun:"favorito,notnull,default:false"`
	Visto      bool      `bun:"visto,notnull,default:false"`
	VerDespues bool      `bun:"ver_despues,notnull,default:false"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt  time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`

	Movie *Movie `bun:"rel:belongs-to,join:pelicula_id=id"`
}
