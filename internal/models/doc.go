// Package models defines the in-memory entities of a predictx upload session.
//
//   - [File] : The data file chosen by the user
//   - [State] : The session status as a tagged value (Idle, Loading, Succeeded, Failed)
//   - [Result] : The owned spreadsheet returned by the prediction service
//
// A [State] can only be built through [Idle], [Loading], [Succeeded] and [Failed], so an error message and a result never coexist.
// Nothing in this package is persisted.
package models

// Title is the heading every front end shows.
const Title = "Exoplanet Prediction App"
