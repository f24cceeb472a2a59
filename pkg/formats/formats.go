// Package formats provides parsers for the mesh file formats used by the scene.
//
// PLY (Polygon File Format) is the only format: ASCII and binary bodies,
// scalar and list properties, read into columns per element.
package formats
