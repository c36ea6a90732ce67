// Package htmlload turns HTML markup into dom forms.
//
// Parsing is delegated to golang.org/x/net/html. The loader walks the tree
// once in document order, creating a dom.Form for every <form> and a control
// for every <input>, <button>, <select> and <textarea>. A control joins the
// form named by its form attribute when it has one, otherwise its nearest
// enclosing form. Controls are associated in document order, so each form's
// registry lists them in tree order.
//
// Parsed trees are cached by path, modification time and size; every load
// still builds fresh forms, since forms are mutable.
package htmlload
